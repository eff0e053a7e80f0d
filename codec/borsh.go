// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"reflect"

	"github.com/near/borsh-go"
)

// Marshal returns the borsh encoding of [v]. [v] must not be a pointer, since
// borsh encodes pointers as optional values.
func Marshal(v any) ([]byte, error) {
	if reflect.ValueOf(v).Kind() == reflect.Ptr {
		return nil, fmt.Errorf("%w: cannot marshal pointer %T", ErrInvalidValue, v)
	}
	return borsh.Serialize(v)
}

// Unmarshal decodes the borsh encoding in [b] into [v], which must be a
// pointer. Unlike [borsh.Deserialize], Unmarshal rejects inputs that carry
// bytes beyond the decoded value.
func Unmarshal(b []byte, v any) error {
	if err := borsh.Deserialize(v, b); err != nil {
		return err
	}
	// borsh is canonical for the types we encode, so re-encoding tells us how
	// many bytes were consumed.
	consumed, err := borsh.Serialize(reflect.ValueOf(v).Elem().Interface())
	if err != nil {
		return err
	}
	if len(consumed) != len(b) {
		return fmt.Errorf("%w: decoded %d of %d bytes", ErrTrailingBytes, len(consumed), len(b))
	}
	return nil
}
