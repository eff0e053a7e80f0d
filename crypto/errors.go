// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import "errors"

var (
	// ErrInvalidPrivateKey is returned when key material has the wrong length.
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidSignature is returned when a signature does not verify for
	// the claimed signer or the signature count does not match.
	ErrInvalidSignature = errors.New("invalid signature")
)
