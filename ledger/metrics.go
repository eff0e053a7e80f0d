// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	txsExecuted  prometheus.Counter
	txsFailed    prometheus.Counter
	txsCommitted prometheus.Counter

	instructionsExecuted prometheus.Counter
	invocations          prometheus.Counter
	airdrops             prometheus.Counter

	executeLatency metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	executeLatency, err := metric.NewAverager(
		"ledger_execute_latency",
		"time spent executing a transaction",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		txsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_executed",
			Help:      "number of txs executed",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_failed",
			Help:      "number of txs that failed and were discarded",
		}),
		txsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_committed",
			Help:      "number of txs committed",
		}),
		instructionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "instructions_executed",
			Help:      "number of top-level instructions executed",
		}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "invocations",
			Help:      "number of program invocations, nested calls included",
		}),
		airdrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "airdrops",
			Help:      "number of faucet airdrops",
		}),
		executeLatency: executeLatency,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsExecuted),
		r.Register(m.txsFailed),
		r.Register(m.txsCommitted),
		r.Register(m.instructionsExecuted),
		r.Register(m.invocations),
		r.Register(m.airdrops),
	)
	return m, errs.Err
}
