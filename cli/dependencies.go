// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/echovm/api/jsonrpc"
	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/storage"
)

var _ Backend = (*jsonrpc.JSONRPCClient)(nil)

// Backend is the ledger the CLI talks to. [*jsonrpc.JSONRPCClient] satisfies
// it for remote nodes and [Local] wraps an in-process vm.
type Backend interface {
	SubmitTx(ctx context.Context, tx *ledger.Transaction) (ids.ID, error)
	GetAccount(ctx context.Context, addr codec.Address) (*storage.Account, error)
	Airdrop(ctx context.Context, addr codec.Address, lamports uint64) (uint64, error)
	DeriveAddress(ctx context.Context, authority codec.Address, seed uint64) (codec.Address, uint8, error)
	Rent(ctx context.Context, size uint64) (uint64, error)
	EchoProgramID(ctx context.Context) (codec.Address, error)
}
