// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package system implements the program that creates accounts and moves
// lamports between system-owned accounts.
package system

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/near/borsh-go"
	"go.uber.org/zap"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

const MaxPermittedDataLength = 10 * units.MiB

// ID is the address of the system program. Accounts that were never created
// are owned by it.
var ID = codec.EmptyAddress

const (
	CreateAccountTag uint8 = iota
	TransferTag
)

type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    codec.Address
}

type Transfer struct {
	Lamports uint64
}

type Instruction struct {
	Enum          borsh.Enum `borsh_enum:"true"`
	CreateAccount CreateAccount
	Transfer      Transfer
}

var _ ledger.Program = (*Program)(nil)

type Program struct{}

func New() *Program {
	return &Program{}
}

func (*Program) Execute(
	_ context.Context,
	env ledger.Environment,
	programID codec.Address,
	accounts []*ledger.AccountInfo,
	data []byte,
) error {
	if programID != ID {
		return ledger.ErrIncorrectProgramID
	}
	var ix Instruction
	if err := codec.Unmarshal(data, &ix); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
	}
	switch uint8(ix.Enum) {
	case CreateAccountTag:
		return createAccount(env, accounts, &ix.CreateAccount)
	case TransferTag:
		return transfer(env, accounts, &ix.Transfer)
	default:
		return fmt.Errorf("%w: unknown tag %d", ledger.ErrInvalidInstructionData, ix.Enum)
	}
}

func createAccount(env ledger.Environment, accounts []*ledger.AccountInfo, args *CreateAccount) error {
	iter := ledger.NewAccountIter(accounts)
	from, err := iter.Next()
	if err != nil {
		return err
	}
	to, err := iter.Next()
	if err != nil {
		return err
	}
	if !from.IsSigner {
		return fmt.Errorf("%w: funding account %s", ledger.ErrMissingRequiredSignature, from.Key)
	}
	if !to.IsSigner {
		return fmt.Errorf("%w: new account %s", ledger.ErrMissingRequiredSignature, to.Key)
	}
	if to.Lamports != 0 || len(to.Data) != 0 || to.Owner != ID {
		return fmt.Errorf("%w: %s", ledger.ErrAccountAlreadyInUse, to.Key)
	}
	if args.Space > MaxPermittedDataLength {
		return fmt.Errorf("%w: %d > %d", ledger.ErrInvalidAccountDataLength, args.Space, MaxPermittedDataLength)
	}
	if err := move(from, to, args.Lamports); err != nil {
		return err
	}
	to.Data = make([]byte, args.Space)
	to.Owner = args.Owner
	env.Log().Debug("created account",
		zap.Stringer("address", to.Key),
		zap.Stringer("owner", args.Owner),
		zap.Uint64("space", args.Space),
		zap.Uint64("lamports", args.Lamports),
	)
	return nil
}

func transfer(env ledger.Environment, accounts []*ledger.AccountInfo, args *Transfer) error {
	iter := ledger.NewAccountIter(accounts)
	from, err := iter.Next()
	if err != nil {
		return err
	}
	to, err := iter.Next()
	if err != nil {
		return err
	}
	if !from.IsSigner {
		return fmt.Errorf("%w: %s", ledger.ErrMissingRequiredSignature, from.Key)
	}
	if from.Owner != ID {
		return fmt.Errorf("%w: %s is owned by %s", ledger.ErrIncorrectOwner, from.Key, from.Owner)
	}
	if len(from.Data) != 0 {
		return fmt.Errorf("%w: %s carries data", ledger.ErrInvalidArgument, from.Key)
	}
	if err := move(from, to, args.Lamports); err != nil {
		return err
	}
	env.Log().Debug("transferred",
		zap.Stringer("from", from.Key),
		zap.Stringer("to", to.Key),
		zap.Uint64("lamports", args.Lamports),
	)
	return nil
}

func move(from, to *ledger.AccountInfo, lamports uint64) error {
	if from.Key == to.Key {
		return nil
	}
	nfrom, err := smath.Sub(from.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("%w: %s has %d, needs %d", ledger.ErrInsufficientFunds, from.Key, from.Lamports, lamports)
	}
	nto, err := smath.Add(to.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidArgument, err)
	}
	from.Lamports = nfrom
	to.Lamports = nto
	return nil
}

func NewCreateAccountInstruction(
	from codec.Address,
	to codec.Address,
	lamports uint64,
	space uint64,
	owner codec.Address,
) (*ledger.Instruction, error) {
	data, err := codec.Marshal(Instruction{
		Enum:          borsh.Enum(CreateAccountTag),
		CreateAccount: CreateAccount{Lamports: lamports, Space: space, Owner: owner},
	})
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: ID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(from, true),
			ledger.NewAccountMeta(to, true),
		},
		Data: data,
	}, nil
}

func NewTransferInstruction(from codec.Address, to codec.Address, lamports uint64) (*ledger.Instruction, error) {
	data, err := codec.Marshal(Instruction{
		Enum:     borsh.Enum(TransferTag),
		Transfer: Transfer{Lamports: lamports},
	})
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: ID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(from, true),
			ledger.NewAccountMeta(to, false),
		},
		Data: data,
	}, nil
}
