// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/consts"
	"github.com/ava-labs/echovm/crypto/ed25519"
	"github.com/ava-labs/echovm/state"
)

// State
// 0x0/ (accounts)
//   -> [address] => account
// 0x1/ (transactions)
//   -> [txID] => committed
// 0x2/ (keystore)
//   -> [publicKey] => privateKey
// 0x3/ (keystore index)
// 0x4/ (default key)

const (
	accountPrefix byte = iota
	txPrefix
	keyPrefix
	keyIndexPrefix
	defaultKeyPrefix
)

var committed = []byte{1}

// Account is a storage cell: lamports, an opaque byte region, and the program
// allowed to modify it.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      codec.Address
	Executable bool
}

func (a *Account) Clone() *Account {
	c := *a
	c.Data = make([]byte, len(a.Data))
	copy(c.Data, a.Data)
	return &c
}

// IsEmpty reports whether [a] is indistinguishable from an account that was
// never created.
func (a *Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == codec.EmptyAddress && !a.Executable
}

// [accountPrefix] + [address]
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, consts.ByteLen+consts.AddressLen)
	k[0] = accountPrefix
	copy(k[1:], addr[:])
	return k
}

// GetAccount returns the account at [addr]. An address that was never written
// holds the empty, system-owned account.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (*Account, error) {
	v, err := im.GetValue(ctx, AccountKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return &Account{Data: []byte{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var acct Account
	if err := codec.Unmarshal(v, &acct); err != nil {
		return nil, fmt.Errorf("%w: account %s", err, addr)
	}
	return &acct, nil
}

// PutAccount stores [acct] at [addr]. Accounts left with no lamports are
// purged.
func PutAccount(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	acct *Account,
) error {
	k := AccountKey(addr)
	// An account is only reclaimed once it holds neither lamports nor data.
	if acct.Lamports == 0 && len(acct.Data) == 0 {
		return mu.Remove(ctx, k)
	}
	v, err := codec.Marshal(*acct)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, k, v)
}

// [txPrefix] + [txID]
func TxKey(id ids.ID) []byte {
	k := make([]byte, consts.ByteLen+ids.IDLen)
	k[0] = txPrefix
	copy(k[1:], id[:])
	return k
}

func HasTransaction(ctx context.Context, im state.Immutable, id ids.ID) (bool, error) {
	_, err := im.GetValue(ctx, TxKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func PutTransaction(ctx context.Context, mu state.Mutable, id ids.ID) error {
	return mu.Insert(ctx, TxKey(id), committed)
}

// [keyPrefix] + [publicKey]
func KeyKey(pk ed25519.PublicKey) []byte {
	k := make([]byte, consts.ByteLen+ed25519.PublicKeyLen)
	k[0] = keyPrefix
	copy(k[1:], pk[:])
	return k
}

// GetKey returns the private key stored for [pk], if any.
func GetKey(ctx context.Context, im state.Immutable, pk ed25519.PublicKey) (ed25519.PrivateKey, bool, error) {
	v, err := im.GetValue(ctx, KeyKey(pk))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, false, nil
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, false, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return ed25519.EmptyPrivateKey, false, ErrCorruptKey
	}
	return ed25519.PrivateKey(v), true, nil
}

// PutKey adds [priv] to the keystore. The first key stored becomes the
// default.
func PutKey(ctx context.Context, mu state.Mutable, priv ed25519.PrivateKey) error {
	pk := priv.PublicKey()
	_, ok, err := GetKey(ctx, mu, pk)
	if err != nil {
		return err
	}
	if ok {
		return ErrDuplicateKey
	}
	keys, err := ListKeys(ctx, mu)
	if err != nil {
		return err
	}
	if err := mu.Insert(ctx, KeyKey(pk), priv[:]); err != nil {
		return err
	}
	addrs := make([]codec.Address, 0, len(keys)+1)
	for _, k := range keys {
		addrs = append(addrs, k.Address())
	}
	addrs = append(addrs, pk.Address())
	v, err := codec.Marshal(addrs)
	if err != nil {
		return err
	}
	if err := mu.Insert(ctx, []byte{keyIndexPrefix}, v); err != nil {
		return err
	}
	if len(keys) == 0 {
		return SetDefaultKey(ctx, mu, pk)
	}
	return nil
}

// ListKeys returns the stored public keys in insertion order.
func ListKeys(ctx context.Context, im state.Immutable) ([]ed25519.PublicKey, error) {
	v, err := im.GetValue(ctx, []byte{keyIndexPrefix})
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var addrs []codec.Address
	if err := codec.Unmarshal(v, &addrs); err != nil {
		return nil, err
	}
	keys := make([]ed25519.PublicKey, len(addrs))
	for i, addr := range addrs {
		keys[i] = ed25519.PublicKey(addr)
	}
	return keys, nil
}

func SetDefaultKey(ctx context.Context, mu state.Mutable, pk ed25519.PublicKey) error {
	_, ok, err := GetKey(ctx, mu, pk)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyNotFound
	}
	return mu.Insert(ctx, []byte{defaultKeyPrefix}, pk[:])
}

func GetDefaultKey(ctx context.Context, im state.Immutable) (ed25519.PrivateKey, error) {
	v, err := im.GetValue(ctx, []byte{defaultKeyPrefix})
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, ErrKeyNotFound
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if len(v) != ed25519.PublicKeyLen {
		return ed25519.EmptyPrivateKey, ErrCorruptKey
	}
	priv, ok, err := GetKey(ctx, im, ed25519.PublicKey(v))
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if !ok {
		return ed25519.EmptyPrivateKey, ErrKeyNotFound
	}
	return priv, nil
}
