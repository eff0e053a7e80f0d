// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/echovm/api"
	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
)

const (
	Endpoint = "/coreapi"
)

var _ api.HandlerFactory[api.VM] = (*JSONRPCServerFactory)(nil)

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(vm api.VM) (api.Handler, error) {
	handler, err := api.NewJSONRPCHandler(api.Name, NewJSONRPCServer(vm))
	if err != nil {
		return api.Handler{}, err
	}

	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	vm api.VM
}

func NewJSONRPCServer(vm api.VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type ProgramsReply struct {
	System codec.Address `json:"system"`
	Echo   codec.Address `json:"echo"`
}

func (j *JSONRPCServer) Programs(_ *http.Request, _ *struct{}, reply *ProgramsReply) error {
	reply.System = system.ID
	reply.Echo = j.vm.EchoProgramID()
	return nil
}

type SubmitTxArgs struct {
	Tx codec.Bytes `json:"tx"`
}

type SubmitTxReply struct {
	TxID ids.ID `json:"txId"`
}

func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := ledger.UnmarshalTransaction(args.Tx)
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	txID, err := j.vm.Execute(ctx, tx)
	if err != nil {
		j.vm.Logger().Debug("rejected transaction",
			zap.Stringer("txID", txID),
			zap.Error(err),
		)
		return err
	}
	reply.TxID = txID
	return nil
}

type GetAccountArgs struct {
	Address codec.Address `json:"address"`
}

type GetAccountReply struct {
	Lamports   uint64        `json:"lamports"`
	Owner      codec.Address `json:"owner"`
	Data       codec.Bytes   `json:"data"`
	Executable bool          `json:"executable"`
}

func (j *JSONRPCServer) GetAccount(
	req *http.Request,
	args *GetAccountArgs,
	reply *GetAccountReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.GetAccount")
	defer span.End()

	acct, err := j.vm.GetAccount(ctx, args.Address)
	if err != nil {
		return err
	}
	reply.Lamports = acct.Lamports
	reply.Owner = acct.Owner
	reply.Data = acct.Data
	reply.Executable = acct.Executable
	return nil
}

type DeriveAddressArgs struct {
	Authority codec.Address `json:"authority"`
	Seed      uint64        `json:"seed"`
}

type DeriveAddressReply struct {
	Address codec.Address `json:"address"`
	Bump    uint8         `json:"bump"`
}

func (j *JSONRPCServer) DeriveAddress(
	_ *http.Request,
	args *DeriveAddressArgs,
	reply *DeriveAddressReply,
) error {
	addr, bump, err := j.vm.DeriveAddress(args.Authority, args.Seed)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Bump = bump
	return nil
}

type AirdropArgs struct {
	Address  codec.Address `json:"address"`
	Lamports uint64        `json:"lamports"`
}

type AirdropReply struct {
	Balance uint64 `json:"balance"`
}

func (j *JSONRPCServer) Airdrop(
	req *http.Request,
	args *AirdropArgs,
	reply *AirdropReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Airdrop")
	defer span.End()

	balance, err := j.vm.Airdrop(ctx, args.Address, args.Lamports)
	if err != nil {
		return err
	}
	reply.Balance = balance
	return nil
}

type RentArgs struct {
	Size uint64 `json:"size"`
}

type RentReply struct {
	Lamports uint64 `json:"lamports"`
}

func (j *JSONRPCServer) Rent(_ *http.Request, args *RentArgs, reply *RentReply) error {
	lamports, err := j.vm.Rent().MinimumBalance(args.Size)
	if err != nil {
		return err
	}
	reply.Lamports = lamports
	return nil
}
