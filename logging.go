/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// configureLogging points the standard logger at stderr, or at a rotating
// file when --log-file is set. The returned closer flushes the file.
func configureLogging(cfg *Config) io.Closer {
	if cfg.logFile == "" {
		log.SetOutput(os.Stderr)

		return nopCloser{}
	}

	out := &lumberjack.Logger{
		Filename:   cfg.logFile,
		MaxSize:    cfg.logMaxSize,
		MaxBackups: cfg.logMaxBackups,
		Compress:   true,
	}

	log.SetOutput(out)

	return out
}
