// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/echovm/api"
	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/requester"
	"github.com/ava-labs/echovm/storage"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	req := requester.New(uri, api.Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	b, err := tx.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	resp := new(SubmitTxReply)
	err = cli.requester.SendRequest(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: codec.Bytes(b)},
		resp,
	)
	return resp.TxID, err
}

func (cli *JSONRPCClient) GetAccount(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	resp := new(GetAccountReply)
	err := cli.requester.SendRequest(
		ctx,
		"getAccount",
		&GetAccountArgs{Address: addr},
		resp,
	)
	if err != nil {
		return nil, err
	}
	data := []byte(resp.Data)
	if data == nil {
		data = []byte{}
	}
	return &storage.Account{
		Lamports:   resp.Lamports,
		Data:       data,
		Owner:      resp.Owner,
		Executable: resp.Executable,
	}, nil
}

func (cli *JSONRPCClient) DeriveAddress(ctx context.Context, authority codec.Address, seed uint64) (codec.Address, uint8, error) {
	resp := new(DeriveAddressReply)
	err := cli.requester.SendRequest(
		ctx,
		"deriveAddress",
		&DeriveAddressArgs{Authority: authority, Seed: seed},
		resp,
	)
	return resp.Address, resp.Bump, err
}

func (cli *JSONRPCClient) EchoProgramID(ctx context.Context) (codec.Address, error) {
	resp := new(ProgramsReply)
	err := cli.requester.SendRequest(
		ctx,
		"programs",
		nil,
		resp,
	)
	return resp.Echo, err
}

func (cli *JSONRPCClient) Airdrop(ctx context.Context, addr codec.Address, lamports uint64) (uint64, error) {
	resp := new(AirdropReply)
	err := cli.requester.SendRequest(
		ctx,
		"airdrop",
		&AirdropArgs{Address: addr, Lamports: lamports},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) Rent(ctx context.Context, size uint64) (uint64, error) {
	resp := new(RentReply)
	err := cli.requester.SendRequest(
		ctx,
		"rent",
		&RentArgs{Size: size},
		resp,
	)
	return resp.Lamports, err
}
