// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Owner Address
	Count uint64
	Data  []byte
	Flag  bool
}

type testEnum struct {
	Enum  borsh.Enum `borsh_enum:"true"`
	Empty struct{}
	Value testRecord
}

func TestMarshalLayout(t *testing.T) {
	require := require.New(t)
	r := testRecord{Count: 0x0102, Data: []byte{9, 8}, Flag: true}
	r.Owner[0] = 0xff

	b, err := Marshal(r)
	require.NoError(err)
	require.Len(b, 32+8+4+2+1)
	require.Equal(byte(0xff), b[0])
	require.Equal([]byte{0x02, 0x01, 0, 0, 0, 0, 0, 0}, b[32:40])
	require.Equal([]byte{2, 0, 0, 0, 9, 8, 1}, b[40:])

	var parsed testRecord
	require.NoError(Unmarshal(b, &parsed))
	require.Equal(r, parsed)
}

func TestMarshalRejectsPointer(t *testing.T) {
	_, err := Marshal(&testRecord{})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestUnmarshalErrors(t *testing.T) {
	valid, err := Marshal(testEnum{Enum: 1, Value: testRecord{Count: 7}})
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		expectedErr error
	}{
		{
			name:  "truncated",
			input: valid[:len(valid)-1],
		},
		{
			name:        "trailing bytes",
			input:       append(append([]byte{}, valid...), 0),
			expectedErr: ErrTrailingBytes,
		},
		{
			name:  "unknown variant",
			input: []byte{2},
		},
		{
			name:  "empty",
			input: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e testEnum
			err := Unmarshal(tt.input, &e)
			require.Error(t, err)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}

	var e testEnum
	require.NoError(t, Unmarshal(valid, &e))
	require.Equal(t, borsh.Enum(1), e.Enum)
	require.Equal(t, uint64(7), e.Value.Count)
}
