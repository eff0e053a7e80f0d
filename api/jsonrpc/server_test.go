// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/echovm/api/jsonrpc"
	"github.com/ava-labs/echovm/config"
	"github.com/ava-labs/echovm/crypto/ed25519"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
	"github.com/ava-labs/echovm/program/echo"
	"github.com/ava-labs/echovm/trace"
	"github.com/ava-labs/echovm/vm"
)

func newTestServer(t *testing.T, faucet bool) *jsonrpc.JSONRPCClient {
	require := require.New(t)

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.FaucetEnabled = faucet
	v, err := vm.New(logging.NoLog{}, trace.Noop(), memdb.New(), cfg, prometheus.NewRegistry())
	require.NoError(err)

	handler, err := jsonrpc.JSONRPCServerFactory{}.New(v)
	require.NoError(err)
	router := mux.NewRouter()
	router.Handle(handler.Path, handler.Handler)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return jsonrpc.NewJSONRPCClient(server.URL)
}

func TestPingAndPrograms(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestServer(t, false)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	id, err := cli.EchoProgramID(ctx)
	require.NoError(err)
	require.Equal(echo.ID, id)

	lamports, err := cli.Rent(ctx, 9)
	require.NoError(err)
	require.Equal(uint64(953_520), lamports)
}

func TestAirdropDisabled(t *testing.T) {
	require := require.New(t)
	cli := newTestServer(t, false)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	_, err = cli.Airdrop(context.Background(), priv.Address(), 1)
	require.ErrorContains(err, vm.ErrFaucetDisabled.Error())
}

func TestAuthorizedEchoOverRPC(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestServer(t, true)

	authority, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	balance, err := cli.Airdrop(ctx, authority.Address(), 10_000_000)
	require.NoError(err)
	require.Equal(uint64(10_000_000), balance)

	programID, err := cli.EchoProgramID(ctx)
	require.NoError(err)
	initIx, buffer, err := echo.NewInitializeAuthorizedEchoInstruction(programID, authority.Address(), 3, 12)
	require.NoError(err)
	derived, bump, err := cli.DeriveAddress(ctx, authority.Address(), 3)
	require.NoError(err)
	require.Equal(buffer, derived)

	tx := ledger.NewTransaction(1, *initIx)
	require.NoError(tx.Sign(authority))
	txID, err := cli.SubmitTx(ctx, tx)
	require.NoError(err)
	expectedID, err := tx.ID()
	require.NoError(err)
	require.Equal(expectedID, txID)

	// Replays are rejected.
	_, err = cli.SubmitTx(ctx, tx)
	require.ErrorContains(err, ledger.ErrDuplicateTransaction.Error())

	writeIx, _, err := echo.NewAuthorizedEchoInstruction(programID, authority.Address(), 3, []byte("hi"))
	require.NoError(err)
	tx = ledger.NewTransaction(2, *writeIx)
	require.NoError(tx.Sign(authority))
	_, err = cli.SubmitTx(ctx, tx)
	require.NoError(err)

	acct, err := cli.GetAccount(ctx, buffer)
	require.NoError(err)
	require.Equal(programID, acct.Owner)
	require.Equal([]byte{bump, 3, 0, 0, 0, 0, 0, 0, 0, 'h', 'i', 0}, acct.Data)

	empty, err := cli.GetAccount(ctx, system.ID)
	require.NoError(err)
	require.True(empty.IsEmpty())
}
