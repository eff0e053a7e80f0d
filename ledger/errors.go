// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

// Program errors. Programs wrap these with context; callers match with
// errors.Is.
var (
	ErrMissingRequiredSignature = errors.New("missing required signature")
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrInvalidAccountData       = errors.New("invalid account data")
	ErrInvalidAccountDataLength = errors.New("invalid account data length")
	ErrInvalidInstructionData   = errors.New("invalid instruction data")
	ErrIncorrectOwner           = errors.New("incorrect owner")
	ErrIncorrectProgramID       = errors.New("incorrect program id")
	ErrNotEnoughAccountKeys     = errors.New("not enough account keys")
	ErrAccountAlreadyInUse      = errors.New("account already in use")
	ErrInsufficientFunds        = errors.New("insufficient funds")
)

// Runtime errors.
var (
	ErrReadonlyAccountModified     = errors.New("read-only account modified")
	ErrExternalAccountDataModified = errors.New("data of account not owned by program modified")
	ErrExternalAccountLamportSpend = errors.New("lamports of account not owned by program spent")
	ErrUnbalancedInstruction       = errors.New("sum of lamports changed")
	ErrMissingAccount              = errors.New("account not passed to caller")
	ErrPrivilegeEscalation         = errors.New("privilege escalation")
	ErrCallDepth                   = errors.New("call depth exceeded")
	ErrDuplicateTransaction        = errors.New("duplicate transaction")
	ErrUnknownProgram              = errors.New("unknown program")
	ErrDuplicateProgram            = errors.New("duplicate program")
	ErrNoInstructions              = errors.New("no instructions")
)
