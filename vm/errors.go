// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrFaucetDisabled  = errors.New("faucet disabled")
	ErrAirdropTooLarge = errors.New("airdrop too large")
)
