// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package echo

import (
	"fmt"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/consts"
	"github.com/ava-labs/echovm/ledger"
)

// HeaderLen is the size of the header at the start of every authorized or
// vending machine buffer.
const HeaderLen = consts.ByteLen + consts.Uint64Len

// AuthorizedBufferHeader records how an authorized buffer's address was
// derived. It is written once, when the buffer is created.
type AuthorizedBufferHeader struct {
	BumpSeed   uint8
	BufferSeed uint64
}

// VendingMachineBufferHeader is the header of a vending machine buffer. It
// shares the authorized layout with [Price] in place of the buffer seed.
type VendingMachineBufferHeader struct {
	BumpSeed uint8
	Price    uint64
}

// EncodeHeader returns the [HeaderLen] byte form of [h].
func EncodeHeader(h *AuthorizedBufferHeader) ([]byte, error) {
	return codec.Marshal(*h)
}

// DecodeHeader reads the header from the first [HeaderLen] bytes of [b].
func DecodeHeader(b []byte) (*AuthorizedBufferHeader, error) {
	var h AuthorizedBufferHeader
	if err := decodeHeader(b, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// EncodeVendingMachineHeader returns the [HeaderLen] byte form of [h].
func EncodeVendingMachineHeader(h *VendingMachineBufferHeader) ([]byte, error) {
	return codec.Marshal(*h)
}

// DecodeVendingMachineHeader is [DecodeHeader] for vending machine buffers.
func DecodeVendingMachineHeader(b []byte) (*VendingMachineBufferHeader, error) {
	var h VendingMachineBufferHeader
	if err := decodeHeader(b, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func decodeHeader(b []byte, v any) error {
	if len(b) < HeaderLen {
		return fmt.Errorf("%w: header needs %d bytes, buffer has %d", ledger.ErrInvalidAccountData, HeaderLen, len(b))
	}
	if err := codec.Unmarshal(b[:HeaderLen], v); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidAccountData, err)
	}
	return nil
}
