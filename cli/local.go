// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/storage"
	"github.com/ava-labs/echovm/vm"
)

var _ Backend = (*Local)(nil)

// Local executes against a vm running in the CLI process.
type Local struct {
	vm *vm.VM
}

func NewLocal(v *vm.VM) *Local {
	return &Local{vm: v}
}

func (l *Local) SubmitTx(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	return l.vm.Execute(ctx, tx)
}

func (l *Local) GetAccount(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	return l.vm.GetAccount(ctx, addr)
}

func (l *Local) Airdrop(ctx context.Context, addr codec.Address, lamports uint64) (uint64, error) {
	return l.vm.Airdrop(ctx, addr, lamports)
}

func (l *Local) DeriveAddress(_ context.Context, authority codec.Address, seed uint64) (codec.Address, uint8, error) {
	return l.vm.DeriveAddress(authority, seed)
}

func (l *Local) Rent(_ context.Context, size uint64) (uint64, error) {
	return l.vm.Rent().MinimumBalance(size)
}

func (l *Local) EchoProgramID(context.Context) (codec.Address, error) {
	return l.vm.EchoProgramID(), nil
}
