// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"errors"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/crypto/ed25519"
	"github.com/ava-labs/echovm/state"
	"github.com/ava-labs/echovm/storage"
	"github.com/ava-labs/echovm/utils"
)

func (h *Handler) storeKey(ctx context.Context, priv ed25519.PrivateKey) error {
	mu := state.NewSimpleMutable(h.db)
	if err := storage.PutKey(ctx, mu, priv); err != nil {
		return err
	}
	return mu.Commit(ctx)
}

// GenerateKey creates and stores a new ed25519 key. The first stored key
// becomes the default.
func (h *Handler) GenerateKey(ctx context.Context) (codec.Address, error) {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return codec.EmptyAddress, err
	}
	if err := h.storeKey(ctx, priv); err != nil {
		return codec.EmptyAddress, err
	}
	utils.Outf("{{green}}created address:{{/}} %s\n", priv.Address())
	return priv.Address(), nil
}

// ImportKey stores a private key given either as hex or as the path of a file
// holding the raw key.
func (h *Handler) ImportKey(ctx context.Context, fileOrHex string) (codec.Address, error) {
	priv, err := ed25519.HexToPrivateKey(fileOrHex)
	if err != nil {
		b, ferr := utils.LoadBytes(fileOrHex, ed25519.PrivateKeyLen)
		if ferr != nil {
			return codec.EmptyAddress, ferr
		}
		priv = ed25519.PrivateKey(b)
	}
	if err := h.storeKey(ctx, priv); err != nil {
		return codec.EmptyAddress, err
	}
	utils.Outf("{{green}}imported address:{{/}} %s\n", priv.Address())
	return priv.Address(), nil
}

// ExportKey writes the default key to [filename].
func (h *Handler) ExportKey(ctx context.Context, filename string) error {
	priv, err := h.DefaultKey(ctx)
	if err != nil {
		return err
	}
	if err := utils.SaveBytes(filename, priv[:]); err != nil {
		return err
	}
	utils.Outf("{{green}}exported address:{{/}} %s {{green}}to:{{/}} %s\n", priv.Address(), filename)
	return nil
}

// Keys returns the stored addresses in the order they were added.
func (h *Handler) Keys(ctx context.Context) ([]codec.Address, error) {
	keys, err := storage.ListKeys(ctx, state.NewSimpleMutable(h.db))
	if err != nil {
		return nil, err
	}
	addrs := make([]codec.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k.Address()
	}
	return addrs, nil
}

// ListKeys prints every stored address with its balance.
func (h *Handler) ListKeys(ctx context.Context) error {
	addrs, err := h.Keys(ctx)
	if err != nil {
		return err
	}
	if len(addrs) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil
	}
	def, err := h.DefaultKey(ctx)
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(addrs))
	for i, addr := range addrs {
		acct, err := h.backend.GetAccount(ctx, addr)
		if err != nil {
			return err
		}
		marker := ""
		if addr == def.Address() {
			marker = " {{yellow}}[default]{{/}}"
		}
		utils.Outf(
			"%d) {{cyan}}address:{{/}} %s {{cyan}}balance:{{/}} %s"+marker+"\n",
			i,
			addr,
			utils.FormatBalance(acct.Lamports),
		)
	}
	return nil
}

func (h *Handler) SetDefaultKey(ctx context.Context, addr codec.Address) error {
	mu := state.NewSimpleMutable(h.db)
	if err := storage.SetDefaultKey(ctx, mu, ed25519.PublicKey(addr)); err != nil {
		return err
	}
	if err := mu.Commit(ctx); err != nil {
		return err
	}
	utils.Outf("{{yellow}}default address:{{/}} %s\n", addr)
	return nil
}

func (h *Handler) DefaultKey(ctx context.Context) (ed25519.PrivateKey, error) {
	priv, err := storage.GetDefaultKey(ctx, state.NewSimpleMutable(h.db))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return ed25519.EmptyPrivateKey, ErrNoKeys
	}
	return priv, err
}
