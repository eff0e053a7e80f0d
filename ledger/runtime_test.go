// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/crypto/ed25519"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
	"github.com/ava-labs/echovm/pda"
	"github.com/ava-labs/echovm/trace"
)

var testProgramID = codec.Address{0xee}

type programFunc func(ctx context.Context, env ledger.Environment, programID codec.Address, accounts []*ledger.AccountInfo, data []byte) error

func (f programFunc) Execute(ctx context.Context, env ledger.Environment, programID codec.Address, accounts []*ledger.AccountInfo, data []byte) error {
	return f(ctx, env, programID, accounts, data)
}

type testContext struct {
	t       *testing.T
	ctx     context.Context
	runtime *ledger.Runtime
	payer   ed25519.PrivateKey
	nonce   uint64
}

func newTestContext(t *testing.T, program ledger.Program) *testContext {
	require := require.New(t)
	ctx := context.Background()

	rt, err := ledger.NewRuntime(logging.NoLog{}, memdb.New(), ledger.DefaultRent(), trace.Noop(), prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(rt.Register(system.ID, system.New()))
	if program != nil {
		require.NoError(rt.Register(testProgramID, program))
	}

	payer, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	_, err = rt.Airdrop(ctx, payer.Address(), 10_000_000)
	require.NoError(err)
	return &testContext{t: t, ctx: ctx, runtime: rt, payer: payer}
}

func (c *testContext) execute(keys []ed25519.PrivateKey, ixs ...*ledger.Instruction) error {
	c.nonce++
	tx := ledger.NewTransaction(c.nonce)
	for _, ix := range ixs {
		tx.Message.Instructions = append(tx.Message.Instructions, *ix)
	}
	require.NoError(c.t, tx.Sign(append([]ed25519.PrivateKey{c.payer}, keys...)...))
	_, err := c.runtime.Execute(c.ctx, tx)
	return err
}

func (c *testContext) lamports(addr codec.Address) uint64 {
	acct, err := c.runtime.GetAccount(c.ctx, addr)
	require.NoError(c.t, err)
	return acct.Lamports
}

// createOwned creates a [space]-byte account owned by the test program.
func (c *testContext) createOwned(space uint64) ed25519.PrivateKey {
	key, err := ed25519.GeneratePrivateKey()
	require.NoError(c.t, err)
	ix, err := system.NewCreateAccountInstruction(c.payer.Address(), key.Address(), 1_000, space, testProgramID)
	require.NoError(c.t, err)
	require.NoError(c.t, c.execute([]ed25519.PrivateKey{key}, ix))
	return key
}

func TestAirdrop(t *testing.T) {
	require := require.New(t)
	c := newTestContext(t, nil)

	balance, err := c.runtime.Airdrop(c.ctx, c.payer.Address(), 5)
	require.NoError(err)
	require.Equal(uint64(10_000_005), balance)
	require.Equal(balance, c.lamports(c.payer.Address()))
}

func TestTransfer(t *testing.T) {
	require := require.New(t)
	c := newTestContext(t, nil)

	to := codec.Address{7}
	ix, err := system.NewTransferInstruction(c.payer.Address(), to, 400)
	require.NoError(err)
	require.NoError(c.execute(nil, ix))

	require.Equal(uint64(400), c.lamports(to))
	require.Equal(uint64(10_000_000-400), c.lamports(c.payer.Address()))
}

func TestExecuteIsAllOrNothing(t *testing.T) {
	require := require.New(t)
	c := newTestContext(t, nil)

	to := codec.Address{7}
	ok, err := system.NewTransferInstruction(c.payer.Address(), to, 400)
	require.NoError(err)
	tooMuch, err := system.NewTransferInstruction(c.payer.Address(), to, 20_000_000)
	require.NoError(err)

	err = c.execute(nil, ok, tooMuch)
	require.ErrorIs(err, ledger.ErrInsufficientFunds)
	require.Zero(c.lamports(to))
	require.Equal(uint64(10_000_000), c.lamports(c.payer.Address()))
}

func TestExecuteRejectsDuplicate(t *testing.T) {
	require := require.New(t)
	c := newTestContext(t, nil)

	ix, err := system.NewTransferInstruction(c.payer.Address(), codec.Address{7}, 1)
	require.NoError(err)
	tx := ledger.NewTransaction(42, *ix)
	require.NoError(tx.Sign(c.payer))

	_, err = c.runtime.Execute(c.ctx, tx)
	require.NoError(err)
	_, err = c.runtime.Execute(c.ctx, tx)
	require.ErrorIs(err, ledger.ErrDuplicateTransaction)
	require.Equal(uint64(1), c.lamports(codec.Address{7}))
}

func TestExecuteMissingSignature(t *testing.T) {
	require := require.New(t)
	c := newTestContext(t, nil)

	other, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	_, err = c.runtime.Airdrop(c.ctx, other.Address(), 100)
	require.NoError(err)

	ix, err := system.NewTransferInstruction(other.Address(), codec.Address{7}, 1)
	require.NoError(err)
	require.ErrorIs(c.execute(nil, ix), ledger.ErrMissingRequiredSignature)
}

func TestExecuteUnknownProgram(t *testing.T) {
	c := newTestContext(t, nil)
	err := c.execute(nil, &ledger.Instruction{ProgramID: codec.Address{9}})
	require.ErrorIs(t, err, ledger.ErrUnknownProgram)
}

func TestCreateAccount(t *testing.T) {
	require := require.New(t)
	c := newTestContext(t, nil)

	key := c.createOwned(16)
	acct, err := c.runtime.GetAccount(c.ctx, key.Address())
	require.NoError(err)
	require.Equal(uint64(1_000), acct.Lamports)
	require.Equal(make([]byte, 16), acct.Data)
	require.Equal(testProgramID, acct.Owner)

	// The account cannot be created twice.
	ix, err := system.NewCreateAccountInstruction(c.payer.Address(), key.Address(), 1_000, 16, testProgramID)
	require.NoError(err)
	require.ErrorIs(c.execute([]ed25519.PrivateKey{key}, ix), ledger.ErrAccountAlreadyInUse)

	big, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	ix, err = system.NewCreateAccountInstruction(c.payer.Address(), big.Address(), 1_000, system.MaxPermittedDataLength+1, testProgramID)
	require.NoError(err)
	require.ErrorIs(c.execute([]ed25519.PrivateKey{big}, ix), ledger.ErrInvalidAccountDataLength)
}

func TestSystemInstructionErrors(t *testing.T) {
	tests := []struct {
		name        string
		accounts    []ledger.AccountMeta
		data        []byte
		expectedErr error
	}{
		{
			name:        "empty data",
			expectedErr: ledger.ErrInvalidInstructionData,
		},
		{
			name:        "unknown tag",
			data:        []byte{9},
			expectedErr: ledger.ErrInvalidInstructionData,
		},
		{
			name:        "missing accounts",
			data:        []byte{1, 1, 0, 0, 0, 0, 0, 0, 0},
			expectedErr: ledger.ErrNotEnoughAccountKeys,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, nil)
			err := c.execute(nil, &ledger.Instruction{
				ProgramID: system.ID,
				Accounts:  tt.accounts,
				Data:      tt.data,
			})
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestRuntimeRules(t *testing.T) {
	tests := []struct {
		name        string
		writable    bool
		mutate      func(payer, owned *ledger.AccountInfo)
		expectedErr error
	}{
		{
			name:     "owned account written",
			writable: true,
			mutate: func(_, owned *ledger.AccountInfo) {
				owned.Data[0] = 1
			},
		},
		{
			name:     "lamports moved out of owned account",
			writable: true,
			mutate: func(payer, owned *ledger.AccountInfo) {
				owned.Lamports--
				payer.Lamports++
			},
		},
		{
			name: "read-only account written",
			mutate: func(_, owned *ledger.AccountInfo) {
				owned.Data[0] = 1
			},
			expectedErr: ledger.ErrReadonlyAccountModified,
		},
		{
			name:     "external account reassigned",
			writable: true,
			mutate: func(payer, _ *ledger.AccountInfo) {
				payer.Owner = testProgramID
			},
			expectedErr: ledger.ErrExternalAccountDataModified,
		},
		{
			name:     "external lamports spent",
			writable: true,
			mutate: func(payer, owned *ledger.AccountInfo) {
				payer.Lamports--
				owned.Lamports++
			},
			expectedErr: ledger.ErrExternalAccountLamportSpend,
		},
		{
			name:     "lamports minted",
			writable: true,
			mutate: func(_, owned *ledger.AccountInfo) {
				owned.Lamports++
			},
			expectedErr: ledger.ErrUnbalancedInstruction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c := newTestContext(t, programFunc(func(_ context.Context, _ ledger.Environment, _ codec.Address, accounts []*ledger.AccountInfo, _ []byte) error {
				tt.mutate(accounts[0], accounts[1])
				return nil
			}))
			owned := c.createOwned(4)

			err := c.execute(nil, &ledger.Instruction{
				ProgramID: testProgramID,
				Accounts: []ledger.AccountMeta{
					ledger.NewAccountMeta(c.payer.Address(), true),
					{Pubkey: owned.Address(), IsWritable: tt.writable},
				},
			})
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}

// vault creates an account at the address derived from "vault" and signs for
// it with the seeds in [data].
func vault(ctx context.Context, env ledger.Environment, programID codec.Address, accounts []*ledger.AccountInfo, data []byte) error {
	iter := ledger.NewAccountIter(accounts)
	payer, err := iter.Next()
	if err != nil {
		return err
	}
	account, err := iter.Next()
	if err != nil {
		return err
	}
	seeds := [][]byte{[]byte("vault")}
	if len(data) == 1 {
		seeds = pda.WithBump(seeds, data[0])
	}
	ix, err := system.NewCreateAccountInstruction(payer.Key, account.Key, 1_000, 8, programID)
	if err != nil {
		return err
	}
	return env.InvokeSigned(ctx, ix, seeds)
}

func TestInvokeSigned(t *testing.T) {
	addr, bump, err := pda.FindProgramAddress([][]byte{[]byte("vault")}, testProgramID)
	require.NoError(t, err)

	tests := []struct {
		name            string
		vaultWritable   bool
		includeVault    bool
		data            []byte
		expectedErr     error
		expectedCreated bool
	}{
		{
			name:            "derived signer",
			vaultWritable:   true,
			includeVault:    true,
			data:            []byte{bump},
			expectedCreated: true,
		},
		{
			name:          "seeds without bump",
			vaultWritable: true,
			includeVault:  true,
			expectedErr:   ledger.ErrPrivilegeEscalation,
		},
		{
			name:         "read-only vault",
			includeVault: true,
			data:         []byte{bump},
			expectedErr:  ledger.ErrPrivilegeEscalation,
		},
		{
			name:        "vault not passed",
			data:        []byte{bump},
			expectedErr: ledger.ErrNotEnoughAccountKeys,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c := newTestContext(t, programFunc(vault))

			metas := []ledger.AccountMeta{ledger.NewAccountMeta(c.payer.Address(), true)}
			if tt.includeVault {
				metas = append(metas,
					ledger.AccountMeta{Pubkey: addr, IsWritable: tt.vaultWritable},
					ledger.NewReadonlyAccountMeta(system.ID, false),
				)
			}
			err := c.execute(nil, &ledger.Instruction{
				ProgramID: testProgramID,
				Accounts:  metas,
				Data:      tt.data,
			})
			require.ErrorIs(err, tt.expectedErr)

			acct, err := c.runtime.GetAccount(c.ctx, addr)
			require.NoError(err)
			if !tt.expectedCreated {
				require.True(acct.IsEmpty())
				return
			}
			require.Equal(testProgramID, acct.Owner)
			require.Equal(make([]byte, 8), acct.Data)
			require.Equal(uint64(1_000), acct.Lamports)
		})
	}
}

func TestInvokeSignedMissingAccount(t *testing.T) {
	c := newTestContext(t, programFunc(func(ctx context.Context, env ledger.Environment, _ codec.Address, accounts []*ledger.AccountInfo, _ []byte) error {
		ix, err := system.NewTransferInstruction(accounts[0].Key, codec.Address{7}, 1)
		if err != nil {
			return err
		}
		return env.InvokeSigned(ctx, ix)
	}))
	err := c.execute(nil, &ledger.Instruction{
		ProgramID: testProgramID,
		Accounts:  []ledger.AccountMeta{ledger.NewAccountMeta(c.payer.Address(), true)},
	})
	require.ErrorIs(t, err, ledger.ErrMissingAccount)
}

func TestInvokeSignedCallDepth(t *testing.T) {
	calls := 0
	c := newTestContext(t, programFunc(func(ctx context.Context, env ledger.Environment, programID codec.Address, _ []*ledger.AccountInfo, _ []byte) error {
		calls++
		return env.InvokeSigned(ctx, &ledger.Instruction{ProgramID: programID})
	}))
	err := c.execute(nil, &ledger.Instruction{ProgramID: testProgramID})
	require.ErrorIs(t, err, ledger.ErrCallDepth)
	require.Equal(t, 4, calls)
}
