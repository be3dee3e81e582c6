// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the YAML configuration that names the storage
// backend and tunes the commit protocol.
package config // import "filecommit.io/config"

import (
	"io"
	"io/ioutil"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"filecommit.io/errors"
	"filecommit.io/storage"
)

// Defaults for the protocol knobs. They match the retention and staleness
// behavior documented in the commit package.
const (
	DefaultMaxSave         = 2
	DefaultMaxArchiveSize  = 100
	DefaultArchiveBatchMax = 20
	DefaultPreCommitTTL    = 30 * time.Second
	DefaultCleanTTL        = 10 * time.Minute
)

// Config holds a parsed configuration file.
//
// A configuration file looks like
//
//	store: Disk
//	storeoptions: basePath=/var/lib/filecommit
//	root: catalogs/events
//	maxsave: 2
//	maxarchivesize: 100
//	archivebatchmax: 20
//	precommitttl: 30s
//	cleanttl: 10m
//
// Only store and root are required; the remaining keys default to the
// values above. Unknown keys are errors.
type Config struct {
	// Store names the registered storage backend to dial.
	Store string `yaml:"store"`

	// StoreOptions is a comma-separated key=value list passed to the
	// backend, in the same form storage.WithOptions accepts.
	StoreOptions string `yaml:"storeoptions"`

	// Root is the path under which the coordinator keeps its tree.
	Root string `yaml:"root"`

	// MaxSave is how many versions below current to retain in tracker/
	// before archiving.
	MaxSave *int `yaml:"maxsave"`

	// MaxArchiveSize is the archive size above which GC switches to
	// batch mode.
	MaxArchiveSize *int `yaml:"maxarchivesize"`

	// ArchiveBatchMax is the GC batch size in batch mode.
	ArchiveBatchMax *int `yaml:"archivebatchmax"`

	// PreCommitTTL is the staleness threshold for adjudicating
	// abandoned attempts.
	PreCommitTTL duration `yaml:"precommitttl"`

	// CleanTTL is the lifetime of an archive tombstone before GC deletes
	// its commit subtree.
	CleanTTL duration `yaml:"cleanttl"`
}

// duration wraps time.Duration so it can be written as "30s" in YAML.
type duration time.Duration

func (d *duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// FromFile reads and parses the named configuration file.
func FromFile(name string) (*Config, error) {
	const op errors.Op = "config.FromFile"
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.E(op, errors.NotExist, err)
		}
		return nil, errors.E(op, errors.IO, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses a configuration from r and applies defaults.
func Parse(r io.Reader) (*Config, error) {
	const op errors.Op = "config.Parse"
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	cfg := new(Config)
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.E(op, errors.Invalid, err)
	}
	if cfg.Store == "" {
		return nil, errors.E(op, errors.Invalid, errors.Str("store must be set"))
	}
	if cfg.Root == "" {
		return nil, errors.E(op, errors.Invalid, errors.Str("root must be set"))
	}
	if cfg.MaxSave == nil {
		cfg.MaxSave = intp(DefaultMaxSave)
	}
	if cfg.MaxArchiveSize == nil {
		cfg.MaxArchiveSize = intp(DefaultMaxArchiveSize)
	}
	if cfg.ArchiveBatchMax == nil {
		cfg.ArchiveBatchMax = intp(DefaultArchiveBatchMax)
	}
	if cfg.PreCommitTTL == 0 {
		cfg.PreCommitTTL = duration(DefaultPreCommitTTL)
	}
	if cfg.CleanTTL == 0 {
		cfg.CleanTTL = duration(DefaultCleanTTL)
	}
	return cfg, nil
}

func intp(v int) *int { return &v }

// PreCommitTTLDuration returns the configured pre-commit TTL.
func (c *Config) PreCommitTTLDuration() time.Duration {
	return time.Duration(c.PreCommitTTL)
}

// CleanTTLDuration returns the configured tombstone lifetime.
func (c *Config) CleanTTLDuration() time.Duration {
	return time.Duration(c.CleanTTL)
}

// DialStorage dials the configured storage backend with the configured
// options.
func (c *Config) DialStorage() (storage.Storage, error) {
	if c.StoreOptions == "" {
		return storage.Dial(c.Store)
	}
	return storage.Dial(c.Store, storage.WithOptions(c.StoreOptions))
}
