// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"io"
	"os"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/perms"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	Name     string
	Level    logging.Level
	Dir      string
	MaxSize  int // megabytes
	MaxFiles int
	// Quiet drops console output. The rotating file still receives every
	// entry at or above [Level].
	Quiet bool
}

// NewLogger returns a logger that writes colored output to stderr and JSON
// to a rotating file under [LogConfig.Dir].
func NewLogger(cfg LogConfig) (logging.Logger, error) {
	if err := os.MkdirAll(cfg.Dir, perms.ReadWriteExecute); err != nil {
		return nil, err
	}

	var consoleWriter io.WriteCloser = os.Stderr
	if cfg.Quiet {
		consoleWriter = discardWriteCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(cfg.Level, consoleWriter, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = cfg.Quiet

	rw := &lumberjack.Logger{
		Filename:   path.Join(cfg.Dir, cfg.Name+".log"),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxFiles,
		Compress:   true,
	}
	fileCore := logging.NewWrappedCore(cfg.Level, rw, logging.JSON.FileEncoder())
	return logging.NewLogger(cfg.Name, consoleCore, fileCore), nil
}

type discardWriteCloser struct {
	io.Writer
}

func (discardWriteCloser) Close() error {
	return nil
}
