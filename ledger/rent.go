// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	smath "github.com/ava-labs/avalanchego/utils/math"
)

const (
	DefaultLamportsPerByteYear    = 3_480
	DefaultExemptionThreshold     = 2
	DefaultAccountStorageOverhead = 128
)

// Rent sets the balance an account must hold to be exempt from rent.
type Rent struct {
	LamportsPerByteYear    uint64 `json:"lamportsPerByteYear"`
	ExemptionThreshold     uint64 `json:"exemptionThreshold"`
	AccountStorageOverhead uint64 `json:"accountStorageOverhead"`
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear:    DefaultLamportsPerByteYear,
		ExemptionThreshold:     DefaultExemptionThreshold,
		AccountStorageOverhead: DefaultAccountStorageOverhead,
	}
}

// MinimumBalance returns the lamports an account holding [size] bytes needs to
// be rent exempt.
func (r Rent) MinimumBalance(size uint64) (uint64, error) {
	bytes, err := smath.Add(r.AccountStorageOverhead, size)
	if err != nil {
		return 0, err
	}
	perYear, err := smath.Mul(bytes, r.LamportsPerByteYear)
	if err != nil {
		return 0, err
	}
	return smath.Mul(perYear, r.ExemptionThreshold)
}
