// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags defines command-line flags to make them consistent between
// binaries. Not all flags make sense for all binaries.
package flags // import "filecommit.io/flags"

import (
	"flag"

	"filecommit.io/log"
)

// We define the flags in two steps so clients don't have to write *flags.Flag.
// It also makes the documentation easier to read.

var (
	// Config names the configuration file to use.
	Config = ""

	// LogLevel sets the level of logging.
	LogLevel logFlag
)

type logFlag struct {
	level log.Level
}

// String implements flag.Value.
func (l *logFlag) String() string {
	return l.level.String()
}

// Set implements flag.Value.
func (l *logFlag) Set(level string) error {
	v, err := log.ToLevel(level)
	if err != nil {
		return err
	}
	l.level = v
	log.SetLevel(v)
	return nil
}

func init() {
	flag.StringVar(&Config, "config", Config, "configuration `file`")
	flag.Var(&LogLevel, "log", "`level` of logging: debug, info, error, disabled")
	LogLevel.level = log.CurrentLevel()
}

// Parse parses the command line.
func Parse() {
	flag.Parse()
}
