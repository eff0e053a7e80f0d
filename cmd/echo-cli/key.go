// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/echovm/cli/prompt"
	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/utils"
)

func newKeyCmd(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "generate",
			Short: "Generate a new ed25519 key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := r.handler.GenerateKey(cmd.Context())
				return err
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored keys and their balances",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.handler.ListKeys(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "set [address]",
			Short: "Set the default key",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if len(args) == 1 {
					addr, err := codec.ParseAddress(args[0])
					if err != nil {
						return err
					}
					return r.handler.SetDefaultKey(ctx, addr)
				}
				addrs, err := r.handler.Keys(ctx)
				if err != nil {
					return err
				}
				if len(addrs) == 0 {
					utils.Outf("{{red}}no stored keys{{/}}\n")
					return nil
				}
				for i, addr := range addrs {
					utils.Outf("%d) {{cyan}}address:{{/}} %s\n", i, addr)
				}
				index, err := prompt.Choice("set default key", len(addrs))
				if err != nil {
					return err
				}
				return r.handler.SetDefaultKey(ctx, addrs[index])
			},
		},
		&cobra.Command{
			Use:   "import <file|hex>",
			Short: "Import a private key from a raw key file or a hex string",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := r.handler.ImportKey(cmd.Context(), args[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "export <file>",
			Short: "Export the default private key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := os.Stat(args[0]); err == nil {
					overwrite, err := prompt.Bool("overwrite " + args[0])
					if err != nil {
						return err
					}
					if !overwrite {
						return nil
					}
				}
				return r.handler.ExportKey(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}
