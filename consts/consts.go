// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	BoolLen   = 1
	Uint64Len = 8
	MaxUint8  = ^uint8(0)
	MaxUint64 = ^uint64(0)

	// AddressLen is the length of every account and program address.
	AddressLen = 32

	// MaxSeedLen and MaxSeeds bound the inputs to program address derivation.
	// The bump byte counts towards [MaxSeeds].
	MaxSeedLen = 32
	MaxSeeds   = 16

	// MaxCallDepth bounds nested program invocations (top-level call included).
	MaxCallDepth = 4

	// NetworkSizeLimit bounds serialized transactions accepted over the API.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)
