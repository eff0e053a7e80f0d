// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package echo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
	"github.com/ava-labs/echovm/pda"
)

// processInitializeAuthorizedEcho creates the buffer derived from the
// authority and [args.BufferSeed], then writes its header.
//
// Accounts: [buffer (w), authority (s, w), system program]
func processInitializeAuthorizedEcho(
	ctx context.Context,
	env ledger.Environment,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	args *InitializeAuthorizedEcho,
) error {
	iter := ledger.NewAccountIter(accounts)
	buffer, err := iter.Next()
	if err != nil {
		return err
	}
	authority, err := iter.Next()
	if err != nil {
		return err
	}
	systemProgram, err := iter.Next()
	if err != nil {
		return err
	}

	if !authority.IsSigner {
		return fmt.Errorf("%w: authority %s", ledger.ErrMissingRequiredSignature, authority.Key)
	}
	if args.BufferSize < HeaderLen {
		return fmt.Errorf("%w: buffer size %d cannot hold the %d byte header", ledger.ErrInvalidArgument, args.BufferSize, HeaderLen)
	}
	if systemProgram.Key != system.ID {
		return fmt.Errorf("%w: %s is not the system program", ledger.ErrIncorrectProgramID, systemProgram.Key)
	}
	seeds := pda.AuthoritySeeds(authority.Key, args.BufferSeed)
	addr, bump, err := pda.FindProgramAddress(seeds, programID)
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidArgument, err)
	}
	if addr != buffer.Key {
		return fmt.Errorf("%w: buffer %s does not match derived address %s", ledger.ErrInvalidArgument, buffer.Key, addr)
	}
	lamports, err := env.Rent().MinimumBalance(args.BufferSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidArgument, err)
	}
	header, err := EncodeHeader(&AuthorizedBufferHeader{BumpSeed: bump, BufferSeed: args.BufferSeed})
	if err != nil {
		return err
	}

	create, err := system.NewCreateAccountInstruction(authority.Key, buffer.Key, lamports, args.BufferSize, programID)
	if err != nil {
		return err
	}
	if err := env.InvokeSigned(ctx, create, pda.WithBump(seeds, bump)); err != nil {
		return err
	}
	copy(buffer.Data[:HeaderLen], header)
	env.Log().Debug("initialized authorized buffer",
		zap.Stringer("buffer", buffer.Key),
		zap.Stringer("authority", authority.Key),
		zap.Uint64("seed", args.BufferSeed),
		zap.Uint8("bump", bump),
		zap.Uint64("size", args.BufferSize),
	)
	return nil
}

// processAuthorizedEcho replaces the payload region of an authorized buffer.
// The buffer's address must re-derive from its header and the signing
// authority.
//
// Accounts: [buffer (w), authority (s)]
func processAuthorizedEcho(
	env ledger.Environment,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	data []byte,
) error {
	iter := ledger.NewAccountIter(accounts)
	buffer, err := iter.Next()
	if err != nil {
		return err
	}
	authority, err := iter.Next()
	if err != nil {
		return err
	}

	if !authority.IsSigner {
		return fmt.Errorf("%w: authority %s", ledger.ErrMissingRequiredSignature, authority.Key)
	}
	header, err := DecodeHeader(buffer.Data)
	if err != nil {
		return err
	}
	seeds := pda.WithBump(pda.AuthoritySeeds(authority.Key, header.BufferSeed), header.BumpSeed)
	addr, err := pda.CreateProgramAddress(seeds, programID)
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidArgument, err)
	}
	if addr != buffer.Key {
		return fmt.Errorf("%w: %s is not the buffer of %s", ledger.ErrInvalidArgument, buffer.Key, authority.Key)
	}

	region := buffer.Data[HeaderLen:]
	n := copy(region, data)
	clear(region[n:])
	env.Log().Debug("authorized echo",
		zap.Stringer("buffer", buffer.Key),
		zap.Int("written", n),
		zap.Int("zeroed", len(region)-n),
	)
	return nil
}
