// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/storage"
)

type VM interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Rent() ledger.Rent
	EchoProgramID() codec.Address
	Execute(ctx context.Context, tx *ledger.Transaction) (ids.ID, error)
	GetAccount(ctx context.Context, addr codec.Address) (*storage.Account, error)
	Airdrop(ctx context.Context, addr codec.Address, lamports uint64) (uint64, error)
	DeriveAddress(authority codec.Address, seed uint64) (codec.Address, uint8, error)
}
