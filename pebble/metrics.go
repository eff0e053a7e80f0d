// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "echovm_store"

	sampleInterval = 10 * time.Second
)

// sampled is a gauge refreshed from [pebble.Metrics] on every tick.
type sampled struct {
	gauge prometheus.Gauge
	read  func(*pebble.Metrics) float64
}

type metrics struct {
	stallStart time.Time
	stall      metric.Averager
	reads      metric.Averager

	batches    prometheus.Counter
	batchBytes prometheus.Counter

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	samples []sampled
}

func newSampled(name, help string, read func(*pebble.Metrics) float64) sampled {
	return sampled{
		gauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}),
		read: read,
	}
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	stall, err := metric.NewAverager(namespace+"_write_stall", "time spent stalled on disk writes", r)
	if err != nil {
		return nil, nil, err
	}
	reads, err := metric.NewAverager(namespace+"_read_latency", "time spent reading a single account", r)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		stall: stall,
		reads: reads,
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits",
			Help:      "number of transaction batches committed",
		}),
		batchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_bytes",
			Help:      "key and value bytes committed",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions started, by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		samples: []sampled{
			newSampled("tombstones", "approximate count of internal tombstones", func(pm *pebble.Metrics) float64 {
				return float64(pm.Keys.TombstoneCount)
			}),
			newSampled("obsolete_table_bytes", "bytes held by unreferenced tables", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ObsoleteSize)
			}),
			newSampled("zombie_table_bytes", "bytes held by tables only referenced by iterators", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ZombieSize)
			}),
			newSampled("obsolete_wal_bytes", "bytes held by WAL files no longer needed", func(pm *pebble.Metrics) float64 {
				return float64(pm.WAL.ObsoletePhysicalSize)
			}),
		},
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batches),
		r.Register(m.batchBytes),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
	)
	for _, s := range m.samples {
		errs.Add(r.Register(s.gauge))
	}
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.stall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) sample() {
	pm := db.db.Metrics()
	for _, s := range db.metrics.samples {
		s.gauge.Set(s.read(pm))
	}
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(sampleInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.sample()
		case <-db.closing:
			return
		}
	}
}
