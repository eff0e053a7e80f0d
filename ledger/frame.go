// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/pda"
	"github.com/ava-labs/echovm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ Environment = (*frame)(nil)

// snapshot is the state of an account when a frame started, or when it last
// returned from a nested call.
type snapshot struct {
	lamports   uint64
	data       []byte
	owner      codec.Address
	executable bool

	signer   bool
	writable bool
	account  *storage.Account
}

// frame is one program invocation.
type frame struct {
	r         *Runtime
	depth     int
	programID codec.Address
	infos     []*AccountInfo

	pre  map[codec.Address]*snapshot
	keys []codec.Address
}

func newFrame(r *Runtime, depth int, programID codec.Address, infos []*AccountInfo) *frame {
	f := &frame{
		r:         r,
		depth:     depth,
		programID: programID,
		infos:     infos,
		pre:       make(map[codec.Address]*snapshot, len(infos)),
	}
	for _, info := range infos {
		if s, ok := f.pre[info.Key]; ok {
			s.signer = s.signer || info.IsSigner
			s.writable = s.writable || info.IsWritable
			continue
		}
		f.pre[info.Key] = &snapshot{
			signer:   info.IsSigner,
			writable: info.IsWritable,
			account:  info.Account,
		}
		f.keys = append(f.keys, info.Key)
	}
	f.capture()
	return f
}

func (f *frame) capture() {
	for _, s := range f.pre {
		s.lamports = s.account.Lamports
		s.data = bytes.Clone(s.account.Data)
		s.owner = s.account.Owner
		s.executable = s.account.Executable
	}
}

// verify checks the changes made since the last capture against what
// [f.programID] is allowed to do.
func (f *frame) verify() error {
	var preTotal, postTotal uint64
	for _, key := range f.keys {
		pre := f.pre[key]
		post := pre.account

		var err error
		preTotal, err = smath.Add(preTotal, pre.lamports)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnbalancedInstruction, err)
		}
		postTotal, err = smath.Add(postTotal, post.Lamports)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnbalancedInstruction, err)
		}

		dataChanged := !bytes.Equal(pre.data, post.Data)
		ownerChanged := pre.owner != post.Owner
		if !pre.writable && (dataChanged || ownerChanged || pre.lamports != post.Lamports || pre.executable != post.Executable) {
			return fmt.Errorf("%w: %s", ErrReadonlyAccountModified, key)
		}
		if pre.owner == f.programID {
			continue
		}
		if dataChanged || ownerChanged || pre.executable != post.Executable {
			return fmt.Errorf("%w: %s", ErrExternalAccountDataModified, key)
		}
		if post.Lamports < pre.lamports {
			return fmt.Errorf("%w: %s", ErrExternalAccountLamportSpend, key)
		}
	}
	if preTotal != postTotal {
		return fmt.Errorf("%w: %d before, %d after", ErrUnbalancedInstruction, preTotal, postTotal)
	}
	return nil
}

func (f *frame) Log() logging.Logger {
	return f.r.log
}

func (f *frame) Rent() Rent {
	return f.r.rent
}

func (f *frame) InvokeSigned(ctx context.Context, ix *Instruction, signerSeeds ...[][]byte) error {
	// Changes made before the call are checked against the caller's rights.
	if err := f.verify(); err != nil {
		return err
	}

	derived := set.NewSet[codec.Address](len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := pda.CreateProgramAddress(seeds, f.programID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPrivilegeEscalation, err)
		}
		derived.Add(addr)
	}

	infos := make([]*AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		caller, ok := f.pre[meta.Pubkey]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAccount, meta.Pubkey)
		}
		if meta.IsWritable && !caller.writable {
			return fmt.Errorf("%w: %s is not writable", ErrPrivilegeEscalation, meta.Pubkey)
		}
		if meta.IsSigner && !caller.signer && !derived.Contains(meta.Pubkey) {
			return fmt.Errorf("%w: %s did not sign", ErrPrivilegeEscalation, meta.Pubkey)
		}
		infos[i] = &AccountInfo{
			Key:        meta.Pubkey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    caller.account,
		}
	}

	if err := f.r.invoke(ctx, f.depth+1, ix.ProgramID, infos, ix.Data); err != nil {
		return err
	}
	// The callee's changes were verified under its own rights.
	f.capture()
	return nil
}
