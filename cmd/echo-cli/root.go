// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/echovm/api/jsonrpc"
	"github.com/ava-labs/echovm/cli"
	"github.com/ava-labs/echovm/config"
	"github.com/ava-labs/echovm/pebble"
	"github.com/ava-labs/echovm/trace"
	"github.com/ava-labs/echovm/utils"
	"github.com/ava-labs/echovm/vm"
)

const cliFolder = ".echo-cli"

type root struct {
	home     string
	endpoint string
	logLevel string

	log     logging.Logger
	db      *pebble.Database
	handler *cli.Handler
}

func NewRootCmd() *cobra.Command {
	r := &root{}
	cmd := &cobra.Command{
		Use:   "echo-cli",
		Short: "Interact with the echo program",
		Long: `Manages local keys and sends echo program transactions, either to a
ledger kept next to the keystore or to a remote echovm node (--endpoint).`,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return r.init()
		},
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	cmd.PersistentFlags().StringVar(&r.home, "home", path.Join(homeDir, cliFolder), "directory holding the keystore and local ledger")
	cmd.PersistentFlags().StringVar(&r.endpoint, "endpoint", "", "echovm node URI; the local ledger is used when empty")
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "info", "log level")

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cobra.OnFinalize(func() {
		if err := r.close(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	})

	cmd.AddCommand(
		newKeyCmd(r),
		newAirdropCmd(r),
		newTransferCmd(r),
		newEchoCmd(r),
		newBufferCmd(r),
		newAccountCmd(r),
	)
	return cmd
}

func (r *root) init() error {
	level, err := logging.ToLevel(r.logLevel)
	if err != nil {
		return err
	}
	r.log, err = utils.NewLogger(utils.LogConfig{
		Name:     "echo-cli",
		Level:    level,
		Dir:      path.Join(r.home, "logs"),
		MaxSize:  8,
		MaxFiles: 2,
		Quiet:    true,
	})
	if err != nil {
		return err
	}

	dbPath, err := utils.InitSubDirectory(r.home, "db")
	if err != nil {
		return err
	}
	r.db, _, err = pebble.New(dbPath, pebble.NewDefaultConfig())
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}

	var backend cli.Backend
	if len(r.endpoint) > 0 {
		backend = jsonrpc.NewJSONRPCClient(r.endpoint)
	} else {
		cfg, err := config.New(nil)
		if err != nil {
			return err
		}
		cfg.FaucetEnabled = true
		v, err := vm.New(r.log, trace.Noop(), r.db, cfg, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		backend = cli.NewLocal(v)
	}
	r.handler = cli.New(r.db, backend)

	r.log.Debug("cli initialized",
		zap.String("home", r.home),
		zap.String("endpoint", r.endpoint),
	)
	return nil
}

func (r *root) close() error {
	if r.log != nil {
		r.log.Stop()
	}
	if r.db == nil {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("unable to close database: %w", err)
	}
	r.db = nil
	return nil
}
