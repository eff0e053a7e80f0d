// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/consts"
	"github.com/ava-labs/echovm/crypto"
	"github.com/ava-labs/echovm/crypto/ed25519"
)

// Message is the signed portion of a [Transaction]. [Nonce] distinguishes
// otherwise identical messages.
type Message struct {
	Nonce        uint64
	Instructions []Instruction
}

func (m *Message) Digest() ([]byte, error) {
	return codec.Marshal(*m)
}

type Signature struct {
	PublicKey ed25519.PublicKey
	Signature ed25519.Signature
}

type Transaction struct {
	Message    Message
	Signatures []Signature
}

func NewTransaction(nonce uint64, ixs ...Instruction) *Transaction {
	return &Transaction{Message: Message{Nonce: nonce, Instructions: ixs}}
}

// Sign appends a signature over the message digest for each key.
func (t *Transaction) Sign(keys ...ed25519.PrivateKey) error {
	digest, err := t.Message.Digest()
	if err != nil {
		return err
	}
	for _, key := range keys {
		t.Signatures = append(t.Signatures, Signature{
			PublicKey: key.PublicKey(),
			Signature: ed25519.Sign(digest, key),
		})
	}
	return nil
}

// ID is the hash of the message digest. Signatures do not affect it.
func (t *Transaction) ID() (ids.ID, error) {
	digest, err := t.Message.Digest()
	if err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(digest), nil
}

// Verify checks every signature and returns the set of signers.
func (t *Transaction) Verify() (set.Set[codec.Address], error) {
	if len(t.Message.Instructions) == 0 {
		return nil, ErrNoInstructions
	}
	digest, err := t.Message.Digest()
	if err != nil {
		return nil, err
	}
	signers := set.NewSet[codec.Address](len(t.Signatures))
	if len(t.Signatures) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(t.Signatures))
		for _, sig := range t.Signatures {
			batch.Add(digest, sig.PublicKey, sig.Signature)
			signers.Add(sig.PublicKey.Address())
		}
		if !batch.Verify() {
			return nil, crypto.ErrInvalidSignature
		}
		return signers, nil
	}
	for i, sig := range t.Signatures {
		if !ed25519.Verify(digest, sig.PublicKey, sig.Signature) {
			return nil, fmt.Errorf("%w: signature %d", crypto.ErrInvalidSignature, i)
		}
		signers.Add(sig.PublicKey.Address())
	}
	return signers, nil
}

func (t *Transaction) Bytes() ([]byte, error) {
	b, err := codec.Marshal(*t)
	if err != nil {
		return nil, err
	}
	if len(b) > consts.NetworkSizeLimit {
		return nil, fmt.Errorf("%w: transaction is %d bytes", ErrInvalidArgument, len(b))
	}
	return b, nil
}

func UnmarshalTransaction(b []byte) (*Transaction, error) {
	if len(b) > consts.NetworkSizeLimit {
		return nil, fmt.Errorf("%w: transaction is %d bytes", ErrInvalidArgument, len(b))
	}
	var tx Transaction
	if err := codec.Unmarshal(b, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
