// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/config"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/program/echo"
	"github.com/ava-labs/echovm/trace"
	"github.com/ava-labs/echovm/vm"
)

func newVM(t *testing.T, cfg *config.Config) *vm.VM {
	v, err := vm.New(logging.NoLog{}, trace.Noop(), memdb.New(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	return v
}

func TestAirdrop(t *testing.T) {
	addr := codec.Address{7}

	tests := []struct {
		name            string
		enabled         bool
		lamports        uint64
		expectedErr     error
		expectedBalance uint64
	}{
		{
			name:        "disabled",
			lamports:    1,
			expectedErr: vm.ErrFaucetDisabled,
		},
		{
			name:        "too large",
			enabled:     true,
			lamports:    1_000_000_001,
			expectedErr: vm.ErrAirdropTooLarge,
		},
		{
			name:            "funded",
			enabled:         true,
			lamports:        500,
			expectedBalance: 500,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			cfg, err := config.New(nil)
			require.NoError(err)
			cfg.FaucetEnabled = tt.enabled
			v := newVM(t, cfg)

			balance, err := v.Airdrop(context.Background(), addr, tt.lamports)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expectedBalance, balance)
		})
	}
}

func TestCustomEchoProgramID(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.FaucetEnabled = true
	cfg.EchoProgramID = codec.Address{9, 9}
	v := newVM(t, cfg)
	require.Equal(cfg.EchoProgramID, v.EchoProgramID())

	authority := codec.Address{1}
	derived, bump, err := v.DeriveAddress(authority, 5)
	require.NoError(err)
	expected, expectedBump, err := echo.DeriveAuthorizedBuffer(cfg.EchoProgramID, authority, 5)
	require.NoError(err)
	require.Equal(expected, derived)
	require.Equal(expectedBump, bump)

	// Served from the derivation cache.
	cached, cachedBump, err := v.DeriveAddress(authority, 5)
	require.NoError(err)
	require.Equal(derived, cached)
	require.Equal(bump, cachedBump)

	// The default echo address is not registered under a custom ID.
	dst := codec.Address{2}
	_, err = v.Airdrop(ctx, dst, 1)
	require.NoError(err)
	ix, err := echo.NewEchoInstruction(echo.ID, dst, []byte{1})
	require.NoError(err)
	_, err = v.Execute(ctx, ledger.NewTransaction(0, *ix))
	require.ErrorIs(err, ledger.ErrUnknownProgram)
}
