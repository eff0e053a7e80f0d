// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import "errors"

var (
	ErrNoKeys       = errors.New("no available keys")
	ErrInvalidSize  = errors.New("invalid buffer size")
	ErrEmptyMessage = errors.New("message is empty")
)
