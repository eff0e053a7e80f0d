// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/crypto"
)

var (
	TestPrivateKey = PrivateKey(
		[PrivateKeyLen]byte{
			32, 241, 118, 222, 210, 13, 164, 128, 3, 18,
			109, 215, 176, 215, 168, 171, 194, 181, 4, 11,
			253, 199, 173, 240, 107, 148, 127, 190, 48, 164,
			12, 48, 115, 50, 124, 153, 59, 53, 196, 150, 168,
			143, 151, 235, 222, 128, 136, 161, 9, 40, 139, 85,
			182, 153, 68, 135, 62, 166, 45, 235, 251, 246, 69, 7,
		},
	)
	TestPublicKey = []byte{
		115, 50, 124, 153, 59, 53, 196, 150, 168, 143, 151, 235,
		222, 128, 136, 161, 9, 40, 139, 85, 182, 153, 68, 135,
		62, 166, 45, 235, 251, 246, 69, 7,
	}
)

func TestGeneratePrivateKey(t *testing.T) {
	require := require.New(t)

	seen := make(map[PrivateKey]struct{})
	for i := 0; i < 8; i++ {
		priv, err := GeneratePrivateKey()
		require.NoError(err)
		require.NotEqual(EmptyPrivateKey, priv)
		require.NotEqual(EmptyPublicKey, priv.PublicKey())
		require.NotContains(seen, priv)
		seen[priv] = struct{}{}
	}
}

func TestKnownKey(t *testing.T) {
	require := require.New(t)

	pub := TestPrivateKey.PublicKey()
	require.Equal(TestPublicKey, pub[:])

	addr := TestPrivateKey.Address()
	require.Equal(codec.Address(pub), addr)
	require.Equal(addr, pub.Address())

	// Signatures are plain RFC 8032 signatures.
	msg := []byte("echo")
	sig := Sign(msg, TestPrivateKey)
	require.Equal(ed25519.Sign(TestPrivateKey[:], msg), sig[:])
}

func TestVerify(t *testing.T) {
	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	msg := []byte("message")
	sig := Sign(msg, TestPrivateKey)
	corrupted := sig
	corrupted[0]++

	tests := []struct {
		name     string
		msg      []byte
		pub      PublicKey
		sig      Signature
		expected bool
	}{
		{
			name:     "valid",
			msg:      msg,
			pub:      TestPrivateKey.PublicKey(),
			sig:      sig,
			expected: true,
		},
		{
			name: "different message",
			msg:  []byte("other message"),
			pub:  TestPrivateKey.PublicKey(),
			sig:  sig,
		},
		{
			name: "different signer",
			msg:  msg,
			pub:  other.PublicKey(),
			sig:  sig,
		},
		{
			name: "corrupted signature",
			msg:  msg,
			pub:  TestPrivateKey.PublicKey(),
			sig:  corrupted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Verify(tt.msg, tt.pub, tt.sig))
		})
	}
}

func TestBatch(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		corrupt     int
		expectedErr error
	}{
		{
			name:    "all valid",
			size:    16,
			corrupt: -1,
		},
		{
			name:        "one corrupted",
			size:        16,
			corrupt:     5,
			expectedErr: crypto.ErrInvalidSignature,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			batch := NewBatch(tt.size)
			for i := 0; i < tt.size; i++ {
				priv, err := GeneratePrivateKey()
				require.NoError(err)
				msg := []byte{byte(i), 0xec, 0x40}
				sig := Sign(msg, priv)
				if i == tt.corrupt {
					sig[1]++
				}
				batch.Add(msg, priv.PublicKey(), sig)
			}
			require.ErrorIs(batch.VerifyAsync()(), tt.expectedErr)
		})
	}
}

func TestHexToPrivateKey(t *testing.T) {
	require := require.New(t)

	parsed, err := HexToPrivateKey(TestPrivateKey.ToHex())
	require.NoError(err)
	require.Equal(TestPrivateKey, parsed)

	parsed, err = HexToPrivateKey(" 0x" + TestPrivateKey.ToHex() + "\n")
	require.NoError(err)
	require.Equal(TestPrivateKey, parsed)

	_, err = HexToPrivateKey("abcd")
	require.ErrorIs(err, crypto.ErrInvalidPrivateKey)
	require.ErrorIs(err, codec.ErrInvalidSize)

	_, err = HexToPrivateKey("not hex")
	require.ErrorIs(err, crypto.ErrInvalidPrivateKey)
	require.ErrorIs(err, codec.ErrInvalidValue)
}

func TestIsOnCurve(t *testing.T) {
	require := require.New(t)

	for i := 0; i < 8; i++ {
		priv, err := GeneratePrivateKey()
		require.NoError(err)
		require.True(IsOnCurve(priv.PublicKey()))
	}

	// Derived from seeds "Talking" and "Squirrels" under
	// BPFLoaderUpgradeab1e11111111111111111111111.
	offCurve, err := codec.ParseAddress("2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk")
	require.NoError(err)
	require.False(IsOnCurve(offCurve))
}
