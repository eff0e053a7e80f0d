// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package echo

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
	"github.com/ava-labs/echovm/pda"
)

const (
	EchoTag uint8 = iota
	InitializeAuthorizedEchoTag
	AuthorizedEchoTag
	InitializeVendingMachineEchoTag
	VendingMachineEchoTag
)

type Echo struct {
	Data []byte
}

type InitializeAuthorizedEcho struct {
	BufferSeed uint64
	BufferSize uint64
}

type AuthorizedEcho struct {
	Data []byte
}

type InitializeVendingMachineEcho struct {
	Price      uint64
	BufferSize uint64
}

type VendingMachineEcho struct {
	Data []byte
}

// Instruction is the tagged union of everything the echo program accepts. The
// tag is the first byte of the encoding.
type Instruction struct {
	Enum                         borsh.Enum `borsh_enum:"true"`
	Echo                         Echo
	InitializeAuthorizedEcho     InitializeAuthorizedEcho
	AuthorizedEcho               AuthorizedEcho
	InitializeVendingMachineEcho InitializeVendingMachineEcho
	VendingMachineEcho           VendingMachineEcho
}

func (i *Instruction) Tag() uint8 {
	return uint8(i.Enum)
}

func (i *Instruction) Bytes() ([]byte, error) {
	return codec.Marshal(*i)
}

// DecodeInstruction parses [b]. The whole of [b] must be consumed.
func DecodeInstruction(b []byte) (*Instruction, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty instruction", ledger.ErrInvalidInstructionData)
	}
	if b[0] > VendingMachineEchoTag {
		return nil, fmt.Errorf("%w: unknown tag %d", ledger.ErrInvalidInstructionData, b[0])
	}
	var ix Instruction
	if err := codec.Unmarshal(b, &ix); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidInstructionData, err)
	}
	return &ix, nil
}

// DeriveAuthorizedBuffer returns the address and canonical bump of the
// buffer [authority] owns under [seed].
func DeriveAuthorizedBuffer(programID codec.Address, authority codec.Address, seed uint64) (codec.Address, uint8, error) {
	return pda.FindProgramAddress(pda.AuthoritySeeds(authority, seed), programID)
}

func newInstruction(programID codec.Address, ix *Instruction, accounts ...ledger.AccountMeta) (*ledger.Instruction, error) {
	data, err := ix.Bytes()
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: programID,
		Accounts:  accounts,
		Data:      data,
	}, nil
}

func NewEchoInstruction(programID codec.Address, buffer codec.Address, data []byte) (*ledger.Instruction, error) {
	return newInstruction(
		programID,
		&Instruction{Enum: borsh.Enum(EchoTag), Echo: Echo{Data: data}},
		ledger.NewAccountMeta(buffer, false),
	)
}

// NewInitializeAuthorizedEchoInstruction creates the buffer [authority] owns
// under [seed]. [authority] pays for it.
func NewInitializeAuthorizedEchoInstruction(
	programID codec.Address,
	authority codec.Address,
	seed uint64,
	size uint64,
) (*ledger.Instruction, codec.Address, error) {
	buffer, _, err := DeriveAuthorizedBuffer(programID, authority, seed)
	if err != nil {
		return nil, codec.EmptyAddress, err
	}
	ix, err := newInstruction(
		programID,
		&Instruction{
			Enum:                     borsh.Enum(InitializeAuthorizedEchoTag),
			InitializeAuthorizedEcho: InitializeAuthorizedEcho{BufferSeed: seed, BufferSize: size},
		},
		ledger.NewAccountMeta(buffer, false),
		ledger.NewAccountMeta(authority, true),
		ledger.NewReadonlyAccountMeta(system.ID, false),
	)
	return ix, buffer, err
}

func NewAuthorizedEchoInstruction(
	programID codec.Address,
	authority codec.Address,
	seed uint64,
	data []byte,
) (*ledger.Instruction, codec.Address, error) {
	buffer, _, err := DeriveAuthorizedBuffer(programID, authority, seed)
	if err != nil {
		return nil, codec.EmptyAddress, err
	}
	ix, err := newInstruction(
		programID,
		&Instruction{Enum: borsh.Enum(AuthorizedEchoTag), AuthorizedEcho: AuthorizedEcho{Data: data}},
		ledger.NewAccountMeta(buffer, false),
		ledger.NewReadonlyAccountMeta(authority, true),
	)
	return ix, buffer, err
}
