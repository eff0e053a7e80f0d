// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package echo implements a program that copies instruction data into
// accounts. Plain echo writes each byte of an account at most once. Authorized
// echo writes into a buffer whose address is derived from its authority, and
// may overwrite it any number of times.
package echo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
)

// ID is the address the echo program is registered under unless configured
// otherwise.
var ID = codec.MustParseAddress("EchoProgram11111111111111111111111111111111")

var _ ledger.Program = (*Program)(nil)

type Program struct{}

func New() *Program {
	return &Program{}
}

func (*Program) Execute(
	ctx context.Context,
	env ledger.Environment,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	data []byte,
) error {
	ix, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	switch ix.Tag() {
	case EchoTag:
		env.Log().Debug("instruction: echo")
		return processEcho(env, accounts, ix.Echo.Data)
	case InitializeAuthorizedEchoTag:
		env.Log().Debug("instruction: initialize authorized echo")
		return processInitializeAuthorizedEcho(ctx, env, programID, accounts, &ix.InitializeAuthorizedEcho)
	case AuthorizedEchoTag:
		env.Log().Debug("instruction: authorized echo")
		return processAuthorizedEcho(env, programID, accounts, ix.AuthorizedEcho.Data)
	case InitializeVendingMachineEchoTag:
		env.Log().Debug("instruction: initialize vending machine echo")
		return processInitializeVendingMachineEcho(env, accounts, &ix.InitializeVendingMachineEcho)
	case VendingMachineEchoTag:
		env.Log().Debug("instruction: vending machine echo")
		return processVendingMachineEcho(env, accounts, ix.VendingMachineEcho.Data)
	default:
		return fmt.Errorf("%w: unknown tag %d", ledger.ErrInvalidInstructionData, ix.Tag())
	}
}

// processEcho copies [data] into the destination account. Every byte it would
// overwrite must still be zero.
func processEcho(env ledger.Environment, accounts []*ledger.AccountInfo, data []byte) error {
	iter := ledger.NewAccountIter(accounts)
	dst, err := iter.Next()
	if err != nil {
		return err
	}
	if len(dst.Data) == 0 {
		return fmt.Errorf("%w: %s has no space", ledger.ErrInvalidAccountData, dst.Key)
	}
	n := min(len(dst.Data), len(data))
	for i, b := range dst.Data[:n] {
		if b != 0 {
			return fmt.Errorf("%w: byte %d of %s is already written", ledger.ErrInvalidAccountData, i, dst.Key)
		}
	}
	copy(dst.Data, data[:n])
	env.Log().Debug("echoed",
		zap.Stringer("account", dst.Key),
		zap.Int("written", n),
		zap.Int("dropped", len(data)-n),
	)
	return nil
}
