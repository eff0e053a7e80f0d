// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/echovm/cache"
	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/config"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
	"github.com/ava-labs/echovm/program/echo"
	"github.com/ava-labs/echovm/state"
	"github.com/ava-labs/echovm/storage"
)

// VM is a ledger with the system and echo programs installed. It backs both
// the API server and the CLI.
type VM struct {
	config  *config.Config
	log     logging.Logger
	tracer  trace.Tracer
	runtime *ledger.Runtime

	derivations *cache.FIFO[derivationKey, derivation]
}

type derivationKey struct {
	authority codec.Address
	seed      uint64
}

type derivation struct {
	address codec.Address
	bump    uint8
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	db state.Database,
	cfg *config.Config,
	reg prometheus.Registerer,
) (*VM, error) {
	rt, err := ledger.NewRuntime(log, db, cfg.Rent, tracer, reg)
	if err != nil {
		return nil, err
	}
	if err := rt.Register(system.ID, system.New()); err != nil {
		return nil, err
	}
	if err := rt.Register(cfg.EchoProgramID, echo.New()); err != nil {
		return nil, err
	}
	derivations, err := cache.NewFIFO[derivationKey, derivation](cfg.DerivationCacheSize)
	if err != nil {
		return nil, err
	}
	log.Info("initialized vm",
		zap.Stringer("echoProgramID", cfg.EchoProgramID),
		zap.Bool("faucetEnabled", cfg.FaucetEnabled),
	)
	return &VM{
		config:  cfg,
		log:     log,
		tracer:  tracer,
		runtime: rt,

		derivations: derivations,
	}, nil
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

func (vm *VM) Rent() ledger.Rent {
	return vm.runtime.Rent()
}

func (vm *VM) EchoProgramID() codec.Address {
	return vm.config.EchoProgramID
}

func (vm *VM) Execute(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	return vm.runtime.Execute(ctx, tx)
}

func (vm *VM) GetAccount(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	return vm.runtime.GetAccount(ctx, addr)
}

// Airdrop funds [addr] from the faucet, if it is enabled.
func (vm *VM) Airdrop(ctx context.Context, addr codec.Address, lamports uint64) (uint64, error) {
	if !vm.config.FaucetEnabled {
		return 0, ErrFaucetDisabled
	}
	if lamports > vm.config.FaucetMaxLamports {
		return 0, fmt.Errorf("%w: %d > %d", ErrAirdropTooLarge, lamports, vm.config.FaucetMaxLamports)
	}
	return vm.runtime.Airdrop(ctx, addr, lamports)
}

// DeriveAddress returns the authorized echo buffer [authority] owns under
// [seed]. Results are cached since finding the bump may hash up to 255 times.
func (vm *VM) DeriveAddress(authority codec.Address, seed uint64) (codec.Address, uint8, error) {
	key := derivationKey{authority: authority, seed: seed}
	if d, ok := vm.derivations.Get(key); ok {
		return d.address, d.bump, nil
	}
	addr, bump, err := echo.DeriveAuthorizedBuffer(vm.config.EchoProgramID, authority, seed)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	vm.derivations.Put(key, derivation{address: addr, bump: bump})
	return addr, bump, nil
}
