// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AnySize disables the length check in [LoadHex].
const AnySize = -1

func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// LoadHex decodes hex text pasted by a user or sent over the API. Surrounding
// whitespace and a 0x prefix are ignored. Unless [size] is [AnySize] the
// decoded value must be exactly [size] bytes.
func LoadHex(s string, size int) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	if size != AnySize && len(b) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, found %d", ErrInvalidSize, size, len(b))
	}
	return b, nil
}

// Bytes is a byte slice carried as hex text in JSON, e.g. a transaction in
// SubmitTx or account data in GetAccount.
type Bytes []byte

func (b Bytes) String() string {
	return ToHex(b)
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(ToHex(b)), nil
}

func (b *Bytes) UnmarshalText(text []byte) error {
	decoded, err := LoadHex(string(text), AnySize)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
