// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/config"
	"github.com/ava-labs/echovm/program/echo"
	"github.com/ava-labs/echovm/storage"
	"github.com/ava-labs/echovm/trace"
	"github.com/ava-labs/echovm/vm"
)

func newTestHandler(t *testing.T) *Handler {
	require := require.New(t)

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.FaucetEnabled = true
	db := memdb.New()
	v, err := vm.New(logging.NoLog{}, trace.Noop(), db, cfg, prometheus.NewRegistry())
	require.NoError(err)
	return New(db, NewLocal(v))
}

func TestKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newTestHandler(t)

	_, err := h.DefaultKey(ctx)
	require.ErrorIs(err, ErrNoKeys)

	first, err := h.GenerateKey(ctx)
	require.NoError(err)
	second, err := h.GenerateKey(ctx)
	require.NoError(err)

	keys, err := h.Keys(ctx)
	require.NoError(err)
	require.Equal([]codec.Address{first, second}, keys)

	def, err := h.DefaultKey(ctx)
	require.NoError(err)
	require.Equal(first, def.Address())

	require.NoError(h.SetDefaultKey(ctx, second))
	def, err = h.DefaultKey(ctx)
	require.NoError(err)
	require.Equal(second, def.Address())
	require.NoError(h.ListKeys(ctx))

	// Export the default key and import it into a fresh keystore.
	file := filepath.Join(t.TempDir(), "key")
	require.NoError(h.ExportKey(ctx, file))
	other := newTestHandler(t)
	imported, err := other.ImportKey(ctx, file)
	require.NoError(err)
	require.Equal(second, imported)

	// The same key as hex is a duplicate.
	_, err = other.ImportKey(ctx, "0x"+def.ToHex())
	require.ErrorIs(err, storage.ErrDuplicateKey)
}

func TestEcho(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newTestHandler(t)

	_, err := h.GenerateKey(ctx)
	require.NoError(err)
	_, err = h.Airdrop(ctx, 100_000_000)
	require.NoError(err)

	_, err = h.Echo(ctx, 0, []byte("hi"))
	require.ErrorIs(err, ErrInvalidSize)
	_, err = h.Echo(ctx, 4, nil)
	require.ErrorIs(err, ErrEmptyMessage)

	buffer, err := h.Echo(ctx, 4, []byte("hello"))
	require.NoError(err)
	acct, err := h.backend.GetAccount(ctx, buffer)
	require.NoError(err)
	require.Equal(echo.ID, acct.Owner)
	require.Equal([]byte("hell"), acct.Data)
	require.NoError(h.ShowAccount(ctx, buffer))
}

func TestAuthorizedBuffer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newTestHandler(t)

	_, err := h.GenerateKey(ctx)
	require.NoError(err)
	_, err = h.Airdrop(ctx, 100_000_000)
	require.NoError(err)

	_, err = h.InitBuffer(ctx, 1, echo.HeaderLen-1)
	require.ErrorIs(err, ErrInvalidSize)

	buffer, err := h.InitBuffer(ctx, 1, echo.HeaderLen+3)
	require.NoError(err)
	derived, bump, err := h.DeriveBuffer(ctx, 1)
	require.NoError(err)
	require.Equal(buffer, derived)

	require.NoError(h.WriteBuffer(ctx, 1, []byte("abcdef")))
	acct, err := h.backend.GetAccount(ctx, buffer)
	require.NoError(err)
	header, err := echo.EncodeHeader(&echo.AuthorizedBufferHeader{BumpSeed: bump, BufferSeed: 1})
	require.NoError(err)
	require.Equal(append(header, 'a', 'b', 'c'), acct.Data)
}

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	h := newTestHandler(t)

	_, err := h.GenerateKey(ctx)
	require.NoError(err)
	_, err = h.Airdrop(ctx, 1_000)
	require.NoError(err)

	to := codec.Address{1, 2, 3}
	require.NoError(h.Transfer(ctx, to, 400))
	acct, err := h.backend.GetAccount(ctx, to)
	require.NoError(err)
	require.Equal(uint64(400), acct.Lamports)
}
