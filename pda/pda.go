// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pda derives program addresses: account addresses that are computed
// from a list of seeds and the program that owns them, and that are guaranteed
// to lie off the ed25519 curve so no private key can ever sign for them.
package pda

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/consts"
	"github.com/ava-labs/echovm/crypto/ed25519"
)

// Marker is appended to every derivation preimage so derived addresses can
// never be confused with other SHA-256 outputs.
const Marker = "ProgramDerivedAddress"

// AuthorityTag is the domain tag of authorized echo buffers.
var AuthorityTag = []byte("authority")

// VendingMachineTag is the domain tag of vending machine buffers.
var VendingMachineTag = []byte("vending_machine")

// CreateProgramAddress computes the program address for [seeds] under
// [programID]. This is the "fixed address" form: callers that already know
// the bump must include it as the final seed.
func CreateProgramAddress(seeds [][]byte, programID codec.Address) (codec.Address, error) {
	if len(seeds) > consts.MaxSeeds {
		return codec.EmptyAddress, ErrTooManySeeds
	}
	size := len(programID) + len(Marker)
	for _, seed := range seeds {
		if len(seed) > consts.MaxSeedLen {
			return codec.EmptyAddress, ErrMaxSeedLengthExceeded
		}
		size += len(seed)
	}
	preimage := make([]byte, 0, size)
	for _, seed := range seeds {
		preimage = append(preimage, seed...)
	}
	preimage = append(preimage, programID[:]...)
	preimage = append(preimage, Marker...)

	addr := codec.Address(hashing.ComputeHash256Array(preimage))
	if ed25519.IsOnCurve(addr) {
		return codec.EmptyAddress, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress searches for the canonical bump of [seeds] under
// [programID]. Bumps are probed from 255 down to 1 and the first bump that
// yields an off-curve address is returned along with that address.
func FindProgramAddress(seeds [][]byte, programID codec.Address) (codec.Address, uint8, error) {
	// Leave room for the bump.
	if len(seeds) >= consts.MaxSeeds {
		return codec.EmptyAddress, 0, ErrTooManySeeds
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{consts.MaxUint8}
	withBump[len(seeds)] = bump
	for ; bump[0] > 0; bump[0]-- {
		addr, err := CreateProgramAddress(withBump, programID)
		switch err {
		case nil:
			return addr, bump[0], nil
		case ErrInvalidSeeds:
			continue
		default:
			return codec.EmptyAddress, 0, err
		}
	}
	return codec.EmptyAddress, 0, ErrNoViableBump
}

// WithBump returns a copy of [seeds] with [bump] appended, which is the form
// expected by [CreateProgramAddress] and by signed cross-program invocations.
func WithBump(seeds [][]byte, bump uint8) [][]byte {
	out := make([][]byte, len(seeds), len(seeds)+1)
	copy(out, seeds)
	return append(out, []byte{bump})
}

// AuthoritySeeds returns the seeds of an authorized echo buffer owned by
// [authority]. [seed] lets a single authority own many buffers.
func AuthoritySeeds(authority codec.Address, seed uint64) [][]byte {
	return [][]byte{AuthorityTag, authority[:], binary.LittleEndian.AppendUint64(nil, seed)}
}

// VendingMachineSeeds returns the seeds of a vending machine buffer that
// charges [price] tokens of [mint] per echo.
func VendingMachineSeeds(mint codec.Address, price uint64) [][]byte {
	return [][]byte{VendingMachineTag, mint[:], binary.LittleEndian.AppendUint64(nil, price)}
}
