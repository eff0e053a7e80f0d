// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/echovm/codec"
	"github.com/ava-labs/echovm/ledger"
	"github.com/ava-labs/echovm/pebble"
	"github.com/ava-labs/echovm/program/echo"
	"github.com/ava-labs/echovm/server"
	"github.com/ava-labs/echovm/trace"
)

const (
	DefaultHTTPAddress = "127.0.0.1:9650"
	DefaultDatabaseDir = ".echovm/db"
	DefaultLogDir      = ".echovm/logs"
)

type Config struct {
	// Logging
	LogLevel     logging.Level `json:"logLevel"`
	LogDir       string        `json:"logDir"`
	LogMaxSizeMB int           `json:"logMaxSizeMB"`
	LogMaxFiles  int           `json:"logMaxFiles"`

	// Storage
	DatabaseDir    string        `json:"databaseDir"`
	DatabaseConfig pebble.Config `json:"databaseConfig"`

	// API
	HTTPAddress        string            `json:"httpAddress"`
	HTTPConfig         server.HTTPConfig `json:"httpConfig"`
	CORSAllowedOrigins []string          `json:"corsAllowedOrigins"`
	FaucetEnabled      bool              `json:"faucetEnabled"`
	FaucetMaxLamports  uint64            `json:"faucetMaxLamports"`

	// Ledger
	EchoProgramID       codec.Address `json:"echoProgramID"`
	Rent                ledger.Rent   `json:"rent"`
	DerivationCacheSize int           `json:"derivationCacheSize"`

	// Tracing
	TraceConfig trace.Config `json:"traceConfig"`
}

func New(b []byte) (*Config, error) {
	c := &Config{
		LogLevel:            logging.Info,
		LogDir:              DefaultLogDir,
		LogMaxSizeMB:        8,
		LogMaxFiles:         4,
		DatabaseDir:         DefaultDatabaseDir,
		DatabaseConfig:      pebble.NewDefaultConfig(),
		HTTPAddress:         DefaultHTTPAddress,
		HTTPConfig:          server.NewDefaultHTTPConfig(),
		CORSAllowedOrigins:  []string{"*"},
		FaucetMaxLamports:   1_000_000_000,
		EchoProgramID:       echo.ID,
		Rent:                ledger.DefaultRent(),
		DerivationCacheSize: 1024,
		TraceConfig: trace.Config{
			TraceSampleRate: 1,
			AppName:         "echovm",
			Agent:           "echovm",
		},
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Verify() error {
	if len(c.DatabaseDir) == 0 {
		return fmt.Errorf("%w: databaseDir", ErrMissingValue)
	}
	if len(c.HTTPAddress) == 0 {
		return fmt.Errorf("%w: httpAddress", ErrMissingValue)
	}
	if c.EchoProgramID == codec.EmptyAddress {
		return fmt.Errorf("%w: echoProgramID is the system program", ErrInvalidValue)
	}
	if c.Rent.LamportsPerByteYear == 0 || c.Rent.ExemptionThreshold == 0 {
		return fmt.Errorf("%w: rent must charge for storage", ErrInvalidValue)
	}
	if c.DerivationCacheSize <= 0 {
		return fmt.Errorf("%w: derivationCacheSize must be positive", ErrInvalidValue)
	}
	if c.LogMaxSizeMB <= 0 || c.LogMaxFiles <= 0 {
		return fmt.Errorf("%w: log rotation must keep at least one file", ErrInvalidValue)
	}
	return nil
}
