// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/echovm/cli/prompt"
	"github.com/ava-labs/echovm/codec"
)

func newAccountCmd(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show [address]",
		Short: "Print an account's balance, owner, and data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				addr codec.Address
				err  error
			)
			if len(args) == 1 {
				addr, err = codec.ParseAddress(args[0])
			} else {
				addr, err = prompt.Address("address")
			}
			if err != nil {
				return err
			}
			return r.handler.ShowAccount(cmd.Context(), addr)
		},
	})
	return cmd
}
