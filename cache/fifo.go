// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/utils/buffer"
)

var errInvalidMaxSize = errors.New("maxSize must be greater than 0")

// FIFO is a fixed size cache that evicts the oldest inserted key once full.
// Re-inserting a cached key updates its value but not its position.
type FIFO[K comparable, V any] struct {
	l sync.RWMutex

	maxSize int
	order   buffer.Deque[K]
	m       map[K]V
}

func NewFIFO[K comparable, V any](maxSize int) (*FIFO[K, V], error) {
	if maxSize < 1 {
		return nil, errInvalidMaxSize
	}
	return &FIFO[K, V]{
		maxSize: maxSize,
		order:   buffer.NewUnboundedDeque[K](maxSize + 1), // +1 so we never resize
		m:       make(map[K]V, maxSize),
	}, nil
}

// Put inserts [key] and reports whether it was already cached.
func (f *FIFO[K, V]) Put(key K, val V) bool {
	f.l.Lock()
	defer f.l.Unlock()

	if _, ok := f.m[key]; ok {
		f.m[key] = val
		return true
	}
	if f.order.Len() == f.maxSize {
		oldest, _ := f.order.PopLeft()
		delete(f.m, oldest)
	}
	f.order.PushRight(key)
	f.m[key] = val
	return false
}

func (f *FIFO[K, V]) Get(key K) (V, bool) {
	f.l.RLock()
	defer f.l.RUnlock()

	v, ok := f.m[key]
	return v, ok
}

func (f *FIFO[K, V]) Len() int {
	f.l.RLock()
	defer f.l.RUnlock()

	return len(f.m)
}
