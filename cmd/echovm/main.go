// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/echovm/api/jsonrpc"
	"github.com/ava-labs/echovm/config"
	"github.com/ava-labs/echovm/pebble"
	"github.com/ava-labs/echovm/server"
	"github.com/ava-labs/echovm/trace"
	"github.com/ava-labs/echovm/utils"
	"github.com/ava-labs/echovm/vm"
)

const metricsEndpoint = "/metrics"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "echovm",
	Short: "Serve a ledger running the echo program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var b []byte
		if len(configFile) > 0 {
			var err error
			b, err = os.ReadFile(configFile)
			if err != nil {
				return err
			}
		}
		cfg, err := config.New(b)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a JSON config file")
	rootCmd.SilenceUsage = true
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := utils.NewLogger(utils.LogConfig{
		Name:     "echovm",
		Level:    cfg.LogLevel,
		Dir:      cfg.LogDir,
		MaxSize:  cfg.LogMaxSizeMB,
		MaxFiles: cfg.LogMaxFiles,
	})
	if err != nil {
		return err
	}
	defer log.Stop()

	db, dbRegistry, err := pebble.New(cfg.DatabaseDir, cfg.DatabaseConfig)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("unable to close database", zap.Error(err))
		}
	}()

	tracer, err := trace.New(&cfg.TraceConfig)
	if err != nil {
		return err
	}
	defer tracer.Close()

	registry := prometheus.NewRegistry()
	v, err := vm.New(log, tracer, db, cfg, registry)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		return err
	}
	srv := server.New(log, listener, cfg.HTTPConfig, cfg.CORSAllowedOrigins)

	api, err := jsonrpc.JSONRPCServerFactory{}.New(v)
	if err != nil {
		return err
	}
	if err := srv.AddRoute(api.Handler, api.Path); err != nil {
		return err
	}
	metrics := promhttp.HandlerFor(prometheus.Gatherers{registry, dbRegistry}, promhttp.HandlerOpts{})
	if err := srv.AddRoute(metrics, metricsEndpoint); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return srv.Shutdown()
	})
	return g.Wait()
}
