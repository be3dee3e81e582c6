// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Commitctl drives the file-based commit coordinator from the command line.
//
// Usage:
//
//	commitctl [-config file] [-log level] commit
//	commitctl [-config file] [-log level] gc
//
// The commit subcommand attempts to publish one new catalog version and
// exits non-zero if another client got in the way; retry policy belongs to
// the caller. The gc subcommand runs one collection sweep without
// committing, which is useful when a series of failing commits has left
// debris behind.
package main

import (
	"flag"
	"fmt"
	"os"

	"filecommit.io/commit"
	"filecommit.io/config"
	"filecommit.io/filecommit"
	"filecommit.io/flags"
	"filecommit.io/log"

	// Storage backends.
	_ "filecommit.io/storage/disk"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage of commitctl:\n")
	fmt.Fprintf(os.Stderr, "\tcommitctl [flags] commit | gc\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flags.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	if flags.Config == "" {
		log.Fatal("commitctl: the -config flag must be set")
	}
	cfg, err := config.FromFile(flags.Config)
	if err != nil {
		log.Fatal(err)
	}
	store, err := cfg.DialStorage()
	if err != nil {
		log.Fatal(err)
	}
	tracker := commit.New(store, filecommit.PathName(cfg.Root), commit.WithOptions(commit.Options{
		MaxSave:         *cfg.MaxSave,
		MaxArchiveSize:  *cfg.MaxArchiveSize,
		ArchiveBatchMax: *cfg.ArchiveBatchMax,
		PreCommitTTL:    cfg.PreCommitTTLDuration(),
		CleanTTL:        cfg.CleanTTLDuration(),
	}))

	switch flag.Arg(0) {
	case "commit":
		receipt, err := tracker.Commit()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("published version %d (attempt %d, client %s)\n", receipt.Version, receipt.Attempt, receipt.Client)
	case "gc":
		if err := tracker.GC(); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}
