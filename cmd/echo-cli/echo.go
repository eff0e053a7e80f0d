// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/echovm/cli/prompt"
	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/utils"
)

// Messages typed at the prompt are capped so they fit a single transaction.
const maxPromptMessage = 4096

func newAirdropCmd(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <amount>",
		Short: "Fund the default key from the faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lamports, err := utils.ParseBalance(args[0])
			if err != nil {
				return err
			}
			_, err = r.handler.Airdrop(cmd.Context(), lamports)
			return err
		},
	}
}

func newTransferCmd(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <address> <amount>",
		Short: "Send lamports from the default key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := codec.ParseAddress(args[0])
			if err != nil {
				return err
			}
			lamports, err := utils.ParseBalance(args[1])
			if err != nil {
				return err
			}
			return r.handler.Transfer(cmd.Context(), to, lamports)
		},
	}
}

func newEchoCmd(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "echo <size> [message]",
		Short: "Create a buffer of <size> bytes and echo a message into it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			msg, err := messageArg(args, 1)
			if err != nil {
				return err
			}
			_, err = r.handler.Echo(cmd.Context(), size, []byte(msg))
			return err
		},
	}
}

func messageArg(args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return prompt.String("message", 1, maxPromptMessage)
}
