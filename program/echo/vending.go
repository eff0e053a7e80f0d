// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package echo

import (
	"go.uber.org/zap"

	"github.com/ava-labs/echovm/ledger"
)

// Vending machine buffers charge a token price per echo. Settlement is not
// defined yet, so both instructions are accepted and leave every account
// untouched.

func processInitializeVendingMachineEcho(
	env ledger.Environment,
	accounts []*ledger.AccountInfo,
	args *InitializeVendingMachineEcho,
) error {
	env.Log().Debug("vending machine echo is a no-op",
		zap.Uint64("price", args.Price),
		zap.Uint64("size", args.BufferSize),
		zap.Int("accounts", len(accounts)),
	)
	return nil
}

func processVendingMachineEcho(
	env ledger.Environment,
	accounts []*ledger.AccountInfo,
	data []byte,
) error {
	env.Log().Debug("vending machine echo is a no-op",
		zap.Int("size", len(data)),
		zap.Int("accounts", len(accounts)),
	)
	return nil
}
