// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newBufferCmd(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Manage authorized buffers owned by the default key",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init <seed> <size>",
			Short: "Create the buffer for <seed>",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				seed, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				size, err := strconv.ParseUint(args[1], 10, 64)
				if err != nil {
					return err
				}
				_, err = r.handler.InitBuffer(cmd.Context(), seed, size)
				return err
			},
		},
		&cobra.Command{
			Use:   "write <seed> [message]",
			Short: "Overwrite the payload of the buffer for <seed>",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				seed, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				msg, err := messageArg(args, 1)
				if err != nil {
					return err
				}
				return r.handler.WriteBuffer(cmd.Context(), seed, []byte(msg))
			},
		},
		&cobra.Command{
			Use:   "derive <seed>",
			Short: "Print the address of the buffer for <seed>",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				seed, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				_, _, err = r.handler.DeriveBuffer(cmd.Context(), seed)
				return err
			},
		},
	)
	return cmd
}
