// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/storage"
)

type AccountMeta struct {
	Pubkey     codec.Address
	IsSigner   bool
	IsWritable bool
}

func NewAccountMeta(pubkey codec.Address, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner, IsWritable: true}
}

func NewReadonlyAccountMeta(pubkey codec.Address, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: isSigner}
}

// Instruction invokes [ProgramID] with [Data] over the listed accounts.
type Instruction struct {
	ProgramID codec.Address
	Accounts  []AccountMeta
	Data      []byte
}

// AccountInfo is the view of an account handed to a program for the duration
// of one invocation. Programs may mutate Lamports and Data in place; the
// runtime decides afterwards whether the mutation was allowed.
type AccountInfo struct {
	Key        codec.Address
	IsSigner   bool
	IsWritable bool

	*storage.Account
}

// AccountIter hands out a program's accounts in order.
type AccountIter struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

func (a *AccountIter) Next() (*AccountInfo, error) {
	if a.next >= len(a.accounts) {
		return nil, fmt.Errorf("%w: wanted account %d of %d", ErrNotEnoughAccountKeys, a.next+1, len(a.accounts))
	}
	info := a.accounts[a.next]
	a.next++
	return info, nil
}
