// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disk provides a storage.Storage that keeps the commit tree on
// local disk. A local filesystem gives the listing consistency the commit
// protocol needs, so this backend is safe for multi-process use on one host
// or over a strongly-consistent network mount.
package disk // import "filecommit.io/storage/disk"

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"filecommit.io/errors"
	"filecommit.io/storage"
)

// New initializes and returns a disk-backed storage.Storage with the given
// options. The single, required option is "basePath" that must be a
// path under which the whole commit tree is kept.
func New(opts *storage.Opts) (storage.Storage, error) {
	const op errors.Op = "storage/disk.New"

	base, ok := opts.Opts["basePath"]
	if !ok {
		return nil, errors.E(op, errors.Invalid, errors.Str("the basePath option must be specified"))
	}
	if err := os.MkdirAll(base, 0700); err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return &storageImpl{base: base}, nil
}

func init() {
	storage.Register("Disk", New)
}

type storageImpl struct {
	base string
}

var _ storage.Storage = (*storageImpl)(nil)

// MakeDirectory implements storage.Storage.
func (s *storageImpl) MakeDirectory(name string) error {
	const op errors.Op = "storage/disk.MakeDirectory"
	if err := os.MkdirAll(s.path(name), 0700); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Exists implements storage.Storage.
func (s *storageImpl) Exists(name string) (bool, error) {
	const op errors.Op = "storage/disk.Exists"
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.E(op, errors.IO, err)
}

// List implements storage.Storage.
func (s *storageImpl) List(dir string, recursive bool) ([]storage.File, error) {
	const op errors.Op = "storage/disk.List"
	var files []storage.File
	if !recursive {
		entries, err := ioutil.ReadDir(s.path(dir))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, errors.E(op, errors.IO, err)
		}
		for _, fi := range entries {
			if fi.IsDir() {
				continue
			}
			files = append(files, storage.File{Name: fi.Name(), ModTime: fi.ModTime()})
		}
		return files, nil
	}
	err := filepath.Walk(s.path(dir), func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		files = append(files, storage.File{Name: fi.Name(), ModTime: fi.ModTime()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.E(op, errors.IO, err)
	}
	return files, nil
}

// PutWithoutGuarantees implements storage.Storage.
func (s *storageImpl) PutWithoutGuarantees(name string, data []byte) error {
	const op errors.Op = "storage/disk.PutWithoutGuarantees"
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return errors.E(op, errors.IO, err)
	}
	if err := ioutil.WriteFile(p, data, 0600); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Delete implements storage.Storage.
func (s *storageImpl) Delete(name string, recursive bool) error {
	const op errors.Op = "storage/disk.Delete"
	if recursive {
		if err := os.RemoveAll(s.path(name)); err != nil {
			return errors.E(op, errors.IO, err)
		}
		return nil
	}
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// path returns the local path for the slash-separated name.
func (s *storageImpl) path(name string) string {
	return filepath.Join(s.base, filepath.FromSlash(name))
}
