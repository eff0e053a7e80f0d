// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/echovm/codec"
)

// Program is an instruction processor registered with a [Runtime] under a
// program ID.
type Program interface {
	Execute(
		ctx context.Context,
		env Environment,
		programID codec.Address,
		accounts []*AccountInfo,
		data []byte,
	) error
}

// Environment is what a program can see of the runtime while it executes.
type Environment interface {
	Log() logging.Logger
	Rent() Rent

	// InvokeSigned executes [ix] as a nested call. Every account [ix] names
	// must have been passed to the caller. Each entry of [signerSeeds] is the
	// seed list (bump included) of an address derived from the calling
	// program; those addresses sign [ix].
	InvokeSigned(ctx context.Context, ix *Instruction, signerSeeds ...[][]byte) error
}
