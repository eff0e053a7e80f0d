// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"

	"github.com/mr-tron/base58"

	"github.com/ava-labs/echovm/consts"
)

// Address is the 32 byte identifier of an account or program.
//
// Addresses are either ed25519 public keys (which can sign) or program derived
// addresses (which are guaranteed to be off the curve and can only "sign" on
// behalf of the program that derived them).
type Address [consts.AddressLen]byte

// EmptyAddress is the address of the system program.
var EmptyAddress = Address{}

// ToAddress copies [b] into an [Address]. [b] must be exactly [consts.AddressLen]
// bytes long.
func ToAddress(b []byte) (Address, error) {
	if len(b) != consts.AddressLen {
		return EmptyAddress, ErrInvalidAddressLength
	}
	return Address(b), nil
}

// ParseAddress decodes the base58 text form of an address.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// MustParseAddress is like [ParseAddress] but panics on malformed input. It is
// only intended for package-level constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Compare orders addresses byte-wise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// MarshalText returns the base58 representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a base58-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
