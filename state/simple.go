// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Mutable = (*SimpleMutable)(nil)

// SimpleMutable buffers changes on top of a [Database]. Nothing reaches the
// database until [SimpleMutable.Commit], which writes all changes in a single
// batch. Dropping a SimpleMutable discards its changes.
type SimpleMutable struct {
	db Database

	changes map[string]maybe.Maybe[[]byte]
}

func NewSimpleMutable(db Database) *SimpleMutable {
	return &SimpleMutable{db, make(map[string]maybe.Maybe[[]byte])}
}

func (s *SimpleMutable) GetValue(_ context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.IsNothing() {
			return nil, database.ErrNotFound
		}
		return v.Value(), nil
	}
	return s.db.Get(k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = maybe.Some(v)
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = maybe.Nothing[[]byte]()
	return nil
}

// Len returns the number of keys changed.
func (s *SimpleMutable) Len() int {
	return len(s.changes)
}

func (s *SimpleMutable) Commit(context.Context) error {
	batch := s.db.NewBatch()
	for k, v := range s.changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	clear(s.changes)
	return nil
}
