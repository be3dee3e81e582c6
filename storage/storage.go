// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage defines the low-level interface the commit protocol
// uses to read and write files on a shared storage substrate.
package storage // import "filecommit.io/storage"

import (
	"strings"
	"time"

	"filecommit.io/errors"
)

// File describes one entry returned by a listing.
type File struct {
	// Name is the last path segment of the entry.
	Name string

	// ModTime is the time the entry was last written, as observed by
	// the storage backend. Backends need not agree with the local clock.
	ModTime time.Time
}

// Storage is the narrow contract a backend must meet to carry the commit
// protocol. Paths are slash-separated names relative to the backend's base.
// Implementations must be safe for concurrent use.
//
// The protocol depends on three listing properties: a client sees its own
// writes, a name once listed stays listed until deleted, and distinct names
// never collide. Backends without consistent listings (for example an
// eventually-consistent object store) are not safe here.
type Storage interface {
	// MakeDirectory creates the named directory. It is idempotent:
	// creating a directory that already exists succeeds.
	MakeDirectory(name string) error

	// Exists reports whether the named file or directory is present.
	Exists(name string) (bool, error)

	// List returns the files under dir: its direct children, or every
	// file below dir when recursive is set. Directories themselves are
	// not returned and the order of entries is unspecified.
	List(dir string, recursive bool) ([]File, error)

	// PutWithoutGuarantees writes data as the whole content of the named
	// file, creating it if needed and overwriting it otherwise. The write
	// carries no atomicity guarantee; the protocol gives meaning to file
	// names, never to partially written contents.
	PutWithoutGuarantees(name string, data []byte) error

	// Delete removes the named file, or the whole subtree under name
	// when recursive is set. Deleting something absent succeeds.
	Delete(name string, recursive bool) error
}

// Constructor is a function that creates a Storage using the given options.
type Constructor func(*Opts) (Storage, error)

var registration = make(map[string]Constructor)

// Opts holds configuration options for the storage backend.
// It is meant to be used by implementations of Storage.
type Opts struct {
	Opts map[string]string // key-value pairs
}

// DialOpts is a daisy-chaining mechanism for setting options to a backend during Dial.
type DialOpts func(*Opts) error

// Register registers a new Storage constructor under a name.
// It is typically used in init functions.
func Register(name string, fn Constructor) error {
	const op errors.Op = "storage.Register"
	if _, exists := registration[name]; exists {
		return errors.E(op, errors.Exist)
	}
	registration[name] = fn
	return nil
}

// WithOptions parses a string in the format "key1=value1,key2=value2,..."
// where keys and values are specific to each storage backend. Neither key
// nor value may contain the characters "," or "=". Use WithKeyValue
// repeatedly if these characters need to be used.
func WithOptions(options string) DialOpts {
	const op errors.Op = "storage.WithOptions"
	return func(o *Opts) error {
		pairs := strings.Split(options, ",")
		for _, p := range pairs {
			kv := strings.Split(p, "=")
			if len(kv) != 2 {
				return errors.E(op, errors.Invalid, errors.Errorf("error parsing option %s", p))
			}
			o.Opts[kv[0]] = kv[1]
		}
		return nil
	}
}

// WithKeyValue sets a key-value pair as option. If called multiple times
// with the same key, the last one wins.
func WithKeyValue(key, value string) DialOpts {
	return func(o *Opts) error {
		o.Opts[key] = value
		return nil
	}
}

// Dial dials the named storage backend using the dial options opts.
func Dial(name string, opts ...DialOpts) (Storage, error) {
	const op errors.Op = "storage.Dial"
	fn, found := registration[name]
	if !found {
		return nil, errors.E(op, errors.NotExist, errors.Str("storage backend type not registered"))
	}
	dOpts := &Opts{
		Opts: make(map[string]string),
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(dOpts); err != nil {
			return nil, err
		}
	}
	return fn(dOpts)
}
