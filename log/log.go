// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log exports logging primitives that log to stderr by default.
package log // import "filecommit.io/log"

// We call this log instead of logging for two reasons:
// 1) It's shorter to type;
// 2) it mimics Go's log package and can be used as a drop-in replacement for it.

import (
	"fmt"
	"io"
	goLog "log"
	"os"
)

// Logger is the interface for logging messages.
type Logger interface {
	// Printf writes a formatted message to the log.
	Printf(format string, v ...interface{})

	// Print writes a message to the log.
	Print(v ...interface{})

	// Println writes a line to the log.
	Println(v ...interface{})

	// Fatal writes a message to the log and aborts.
	Fatal(v ...interface{})

	// Fatalf writes a formatted message to the log and aborts.
	Fatalf(format string, v ...interface{})
}

// Level represents the level of logging.
type Level int

// Different levels of logging.
const (
	Ldebug Level = iota
	Linfo
	Lerror
	Ldisabled
)

// Pre-allocated Loggers at each logging level.
var (
	Debug Logger = &logger{Ldebug}
	Info  Logger = &logger{Linfo}
	Error Logger = &logger{Lerror}
)

var (
	currentLevel         = Linfo
	defaultLogger Logger = goLog.New(os.Stderr, "", goLog.Ldate|goLog.Ltime|goLog.LUTC|goLog.Lmicroseconds)
)

type logger struct {
	level Level
}

var _ Logger = (*logger)(nil)

// Printf writes a formatted message to the log.
func (l *logger) Printf(format string, v ...interface{}) {
	if l.level < currentLevel {
		return // Don't log at lower levels.
	}
	defaultLogger.Printf(format, v...)
}

// Print writes a message to the log.
func (l *logger) Print(v ...interface{}) {
	if l.level < currentLevel {
		return
	}
	defaultLogger.Print(v...)
}

// Println writes a line to the log.
func (l *logger) Println(v ...interface{}) {
	if l.level < currentLevel {
		return
	}
	defaultLogger.Println(v...)
}

// Fatal writes a message to the log and aborts, regardless of the current log level.
func (l *logger) Fatal(v ...interface{}) {
	defaultLogger.Fatal(v...)
}

// Fatalf writes a formatted message to the log and aborts, regardless of the current log level.
func (l *logger) Fatalf(format string, v ...interface{}) {
	defaultLogger.Fatalf(format, v...)
}

// String returns the name of the level.
func (lv Level) String() string {
	switch lv {
	case Ldebug:
		return "debug"
	case Linfo:
		return "info"
	case Lerror:
		return "error"
	case Ldisabled:
		return "disabled"
	}
	return "unknown"
}

// ToLevel converts a string to its Level value.
func ToLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return Ldebug, nil
	case "info":
		return Linfo, nil
	case "error":
		return Lerror, nil
	case "disabled":
		return Ldisabled, nil
	}
	return Linfo, fmt.Errorf("invalid log level %q", s)
}

// SetLevel sets the current level of logging.
func SetLevel(level Level) {
	currentLevel = level
}

// CurrentLevel returns the current logging level.
func CurrentLevel() Level {
	return currentLevel
}

// At reports whether the level will be logged currently.
func At(level Level) bool {
	return currentLevel <= level
}

// SetOutput sets the default loggers to write to w.
// If w is nil, the default loggers are disabled.
func SetOutput(w io.Writer) {
	if w == nil {
		currentLevel = Ldisabled
		return
	}
	defaultLogger = goLog.New(w, "", goLog.Ldate|goLog.Ltime|goLog.LUTC|goLog.Lmicroseconds)
}

// The functions below are convenience wrappers so the package can be used
// as a drop-in replacement for the standard log package.

// Printf writes a formatted message to the log at the info level.
func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

// Print writes a message to the log at the info level.
func Print(v ...interface{}) {
	Info.Print(v...)
}

// Println writes a line to the log at the info level.
func Println(v ...interface{}) {
	Info.Println(v...)
}

// Fatal writes a message to the log and aborts.
func Fatal(v ...interface{}) {
	Info.Fatal(v...)
}

// Fatalf writes a formatted message to the log and aborts.
func Fatalf(format string, v ...interface{}) {
	Info.Fatalf(format, v...)
}
