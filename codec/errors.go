// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrInvalidAddressLength = errors.New("invalid address length")
	ErrTrailingBytes        = errors.New("trailing bytes")
	ErrInvalidValue         = errors.New("invalid value")
	ErrInvalidSize          = errors.New("invalid size")
)
