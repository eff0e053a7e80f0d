// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import "errors"

var (
	ErrMaxSeedLengthExceeded = errors.New("seed exceeds max length")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrInvalidSeeds          = errors.New("derived address is on the ed25519 curve")
	ErrNoViableBump          = errors.New("unable to find a viable bump seed")
)
