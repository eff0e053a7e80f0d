// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/consts"
	"github.com/ava-labs/echovm/state"
	"github.com/ava-labs/echovm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Runtime executes transactions against a database. Each transaction either
// commits in full or leaves the database untouched.
type Runtime struct {
	log     logging.Logger
	db      state.Database
	rent    Rent
	tracer  trace.Tracer
	metrics *metrics

	programs map[codec.Address]Program

	// Execute and Airdrop are serialized
	l sync.Mutex
}

func NewRuntime(
	log logging.Logger,
	db state.Database,
	rent Rent,
	tracer trace.Tracer,
	reg prometheus.Registerer,
) (*Runtime, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		log:      log,
		db:       db,
		rent:     rent,
		tracer:   tracer,
		metrics:  m,
		programs: make(map[codec.Address]Program),
	}, nil
}

// Register adds [program] under [programID]. Registration is not safe to do
// concurrently with [Runtime.Execute].
func (r *Runtime) Register(programID codec.Address, program Program) error {
	if _, ok := r.programs[programID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, programID)
	}
	r.programs[programID] = program
	return nil
}

func (r *Runtime) Rent() Rent {
	return r.rent
}

// Execute runs every instruction in [tx] in order. If any fails, nothing is
// written.
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) (ids.ID, error) {
	r.l.Lock()
	defer r.l.Unlock()

	ctx, span := r.tracer.Start(ctx, "Runtime.Execute", oteltrace.WithAttributes(
		attribute.Int("instructions", len(tx.Message.Instructions)),
		attribute.Int("signatures", len(tx.Signatures)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		r.metrics.executeLatency.Observe(float64(time.Since(start)))
	}()

	r.metrics.txsExecuted.Inc()
	id, err := r.execute(ctx, tx)
	if err != nil {
		r.metrics.txsFailed.Inc()
		r.log.Debug("transaction failed",
			zap.Stringer("txID", id),
			zap.Error(err),
		)
		return id, err
	}
	r.metrics.txsCommitted.Inc()
	r.log.Debug("transaction committed",
		zap.Stringer("txID", id),
		zap.Int("instructions", len(tx.Message.Instructions)),
	)
	return id, nil
}

func (r *Runtime) execute(ctx context.Context, tx *Transaction) (ids.ID, error) {
	id, err := tx.ID()
	if err != nil {
		return ids.Empty, err
	}
	signers, err := tx.Verify()
	if err != nil {
		return id, err
	}
	mu := state.NewSimpleMutable(r.db)
	dup, err := storage.HasTransaction(ctx, mu, id)
	if err != nil {
		return id, err
	}
	if dup {
		return id, fmt.Errorf("%w: %s", ErrDuplicateTransaction, id)
	}

	ws := newWorkingSet(mu)
	for i, ix := range tx.Message.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !signers.Contains(meta.Pubkey) {
				return id, fmt.Errorf("%w: instruction %d: %s", ErrMissingRequiredSignature, i, meta.Pubkey)
			}
		}
		infos, err := ws.infos(ctx, ix.Accounts)
		if err != nil {
			return id, err
		}
		if err := r.invoke(ctx, 1, ix.ProgramID, infos, ix.Data); err != nil {
			return id, fmt.Errorf("instruction %d: %w", i, err)
		}
		r.metrics.instructionsExecuted.Inc()
	}

	if err := ws.flush(ctx); err != nil {
		return id, err
	}
	if err := storage.PutTransaction(ctx, mu, id); err != nil {
		return id, err
	}
	return id, mu.Commit(ctx)
}

func (r *Runtime) invoke(
	ctx context.Context,
	depth int,
	programID codec.Address,
	infos []*AccountInfo,
	data []byte,
) error {
	if depth > consts.MaxCallDepth {
		return fmt.Errorf("%w: depth %d", ErrCallDepth, depth)
	}
	program, ok := r.programs[programID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, programID)
	}

	ctx, span := r.tracer.Start(ctx, "Runtime.invoke", oteltrace.WithAttributes(
		attribute.String("program", programID.String()),
		attribute.Int("depth", depth),
	))
	defer span.End()

	r.metrics.invocations.Inc()
	f := newFrame(r, depth, programID, infos)
	if err := program.Execute(ctx, f, programID, infos, data); err != nil {
		return err
	}
	return f.verify()
}

// GetAccount reads the committed account at [addr].
func (r *Runtime) GetAccount(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	return storage.GetAccount(ctx, state.NewSimpleMutable(r.db), addr)
}

// Airdrop credits [lamports] to [addr] outside of any transaction.
func (r *Runtime) Airdrop(ctx context.Context, addr codec.Address, lamports uint64) (uint64, error) {
	r.l.Lock()
	defer r.l.Unlock()

	mu := state.NewSimpleMutable(r.db)
	acct, err := storage.GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	acct.Lamports, err = smath.Add(acct.Lamports, lamports)
	if err != nil {
		return 0, fmt.Errorf("%w: airdrop to %s", err, addr)
	}
	if err := storage.PutAccount(ctx, mu, addr, acct); err != nil {
		return 0, err
	}
	if err := mu.Commit(ctx); err != nil {
		return 0, err
	}
	r.metrics.airdrops.Inc()
	r.log.Info("airdropped",
		zap.Stringer("address", addr),
		zap.Uint64("lamports", lamports),
		zap.Uint64("balance", acct.Lamports),
	)
	return acct.Lamports, nil
}

// workingSet holds every account loaded by a transaction. Accounts are shared
// by pointer, so an instruction sees the writes of the ones before it.
type workingSet struct {
	mu       state.Mutable
	accounts map[codec.Address]*storage.Account
	order    []codec.Address
}

func newWorkingSet(mu state.Mutable) *workingSet {
	return &workingSet{mu: mu, accounts: make(map[codec.Address]*storage.Account)}
}

func (w *workingSet) get(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	if acct, ok := w.accounts[addr]; ok {
		return acct, nil
	}
	acct, err := storage.GetAccount(ctx, w.mu, addr)
	if err != nil {
		return nil, err
	}
	w.accounts[addr] = acct
	w.order = append(w.order, addr)
	return acct, nil
}

func (w *workingSet) infos(ctx context.Context, metas []AccountMeta) ([]*AccountInfo, error) {
	infos := make([]*AccountInfo, len(metas))
	for i, meta := range metas {
		acct, err := w.get(ctx, meta.Pubkey)
		if err != nil {
			return nil, err
		}
		infos[i] = &AccountInfo{
			Key:        meta.Pubkey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    acct,
		}
	}
	return infos, nil
}

func (w *workingSet) flush(ctx context.Context) error {
	for _, addr := range w.order {
		if err := storage.PutAccount(ctx, w.mu, addr, w.accounts[addr]); err != nil {
			return err
		}
	}
	return nil
}
