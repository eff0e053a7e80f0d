// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/echovm/state"
)

// Handler implements the CLI commands. Keys are kept in [db]; everything else
// goes through [backend].
type Handler struct {
	db      state.Database
	backend Backend
}

func New(db state.Database, backend Backend) *Handler {
	return &Handler{db: db, backend: backend}
}
