// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/crypto/ed25519"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/ledger/system"
	"github.com/ava-labs/echovm/program/echo"
	"github.com/ava-labs/echovm/utils"
)

// submit signs [ixs] with the default key plus [extra] and sends them as one
// transaction.
func (h *Handler) submit(ctx context.Context, extra []ed25519.PrivateKey, ixs ...ledger.Instruction) (ids.ID, error) {
	payer, err := h.DefaultKey(ctx)
	if err != nil {
		return ids.Empty, err
	}
	tx := ledger.NewTransaction(uint64(time.Now().UnixNano()), ixs...)
	if err := tx.Sign(append([]ed25519.PrivateKey{payer}, extra...)...); err != nil {
		return ids.Empty, err
	}
	txID, err := h.backend.SubmitTx(ctx, tx)
	if err != nil {
		return ids.Empty, err
	}
	utils.Outf("{{green}}txID:{{/}} %s\n", txID)
	return txID, nil
}

// Airdrop funds the default key from the faucet.
func (h *Handler) Airdrop(ctx context.Context, lamports uint64) (uint64, error) {
	priv, err := h.DefaultKey(ctx)
	if err != nil {
		return 0, err
	}
	balance, err := h.backend.Airdrop(ctx, priv.Address(), lamports)
	if err != nil {
		return 0, err
	}
	utils.Outf("{{green}}balance:{{/}} %s\n", utils.FormatBalance(balance))
	return balance, nil
}

func (h *Handler) Transfer(ctx context.Context, to codec.Address, lamports uint64) error {
	priv, err := h.DefaultKey(ctx)
	if err != nil {
		return err
	}
	ix, err := system.NewTransferInstruction(priv.Address(), to, lamports)
	if err != nil {
		return err
	}
	_, err = h.submit(ctx, nil, *ix)
	return err
}

// Echo creates a fresh [size] byte buffer owned by the echo program and echoes
// [msg] into it in the same transaction.
func (h *Handler) Echo(ctx context.Context, size uint64, msg []byte) (codec.Address, error) {
	if size == 0 {
		return codec.EmptyAddress, fmt.Errorf("%w: buffer must hold at least one byte", ErrInvalidSize)
	}
	if len(msg) == 0 {
		return codec.EmptyAddress, ErrEmptyMessage
	}
	payer, err := h.DefaultKey(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	programID, err := h.backend.EchoProgramID(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	lamports, err := h.backend.Rent(ctx, size)
	if err != nil {
		return codec.EmptyAddress, err
	}
	buffer, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return codec.EmptyAddress, err
	}
	create, err := system.NewCreateAccountInstruction(payer.Address(), buffer.Address(), lamports, size, programID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	write, err := echo.NewEchoInstruction(programID, buffer.Address(), msg)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if _, err := h.submit(ctx, []ed25519.PrivateKey{buffer}, *create, *write); err != nil {
		return codec.EmptyAddress, err
	}
	utils.Outf("{{green}}buffer:{{/}} %s\n", buffer.Address())
	return buffer.Address(), nil
}

// InitBuffer creates the authorized buffer the default key owns under [seed].
func (h *Handler) InitBuffer(ctx context.Context, seed uint64, size uint64) (codec.Address, error) {
	if size < echo.HeaderLen {
		return codec.EmptyAddress, fmt.Errorf("%w: %d < %d", ErrInvalidSize, size, echo.HeaderLen)
	}
	authority, err := h.DefaultKey(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	programID, err := h.backend.EchoProgramID(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	ix, buffer, err := echo.NewInitializeAuthorizedEchoInstruction(programID, authority.Address(), seed, size)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if _, err := h.submit(ctx, nil, *ix); err != nil {
		return codec.EmptyAddress, err
	}
	utils.Outf("{{green}}buffer:{{/}} %s\n", buffer)
	return buffer, nil
}

// WriteBuffer overwrites the payload of the default key's buffer under
// [seed].
func (h *Handler) WriteBuffer(ctx context.Context, seed uint64, msg []byte) error {
	authority, err := h.DefaultKey(ctx)
	if err != nil {
		return err
	}
	programID, err := h.backend.EchoProgramID(ctx)
	if err != nil {
		return err
	}
	ix, _, err := echo.NewAuthorizedEchoInstruction(programID, authority.Address(), seed, msg)
	if err != nil {
		return err
	}
	_, err = h.submit(ctx, nil, *ix)
	return err
}

// DeriveBuffer prints the address and bump of the default key's buffer under
// [seed] without touching the ledger.
func (h *Handler) DeriveBuffer(ctx context.Context, seed uint64) (codec.Address, uint8, error) {
	authority, err := h.DefaultKey(ctx)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	addr, bump, err := h.backend.DeriveAddress(ctx, authority.Address(), seed)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	utils.Outf("{{green}}buffer:{{/}} %s {{green}}bump:{{/}} %d\n", addr, bump)
	return addr, bump, nil
}

func (h *Handler) ShowAccount(ctx context.Context, addr codec.Address) error {
	acct, err := h.backend.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}address:{{/}} %s\n", addr)
	utils.Outf("{{cyan}}balance:{{/}} %s\n", utils.FormatBalance(acct.Lamports))
	utils.Outf("{{cyan}}owner:{{/}} %s\n", acct.Owner)
	utils.Outf("{{cyan}}executable:{{/}} %t\n", acct.Executable)
	utils.Outf("{{cyan}}data:{{/}} %x\n", acct.Data)
	return nil
}
