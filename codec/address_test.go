// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	addr := MustParseAddress("BPFLoaderUpgradeab1e11111111111111111111111")
	addrStr, err := addr.MarshalText()
	require.NoError(err)
	require.Equal("BPFLoaderUpgradeab1e11111111111111111111111", string(addrStr))

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestEmptyAddressString(t *testing.T) {
	require.Equal(t, "11111111111111111111111111111111", EmptyAddress.String())
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := MustParseAddress("SeedPubey1111111111111111111111111111111111")

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)
	require.Equal(`"SeedPubey1111111111111111111111111111111111"`, string(addrJSONBytes))

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestParseAddressErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedErr error
	}{
		{
			name:        "too short",
			input:       "1111",
			expectedErr: ErrInvalidAddressLength,
		},
		{
			name:        "too long",
			input:       "BPFLoaderUpgradeab1e11111111111111111111111BPF",
			expectedErr: ErrInvalidAddressLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}

	_, err := ParseAddress("0OIl")
	require.Error(t, err)
}

func TestToAddress(t *testing.T) {
	require := require.New(t)
	_, err := ToAddress(make([]byte, 31))
	require.ErrorIs(err, ErrInvalidAddressLength)

	b := make([]byte, 32)
	b[31] = 1
	addr, err := ToAddress(b)
	require.NoError(err)
	require.Equal(1, addr.Compare(EmptyAddress))
	require.Equal(0, addr.Compare(addr))
}
