// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storagetest implements simple storage backends for tests.
package storagetest // import "filecommit.io/storage/storagetest"

import (
	gopath "path"
	"sort"
	"strings"
	"sync"
	"time"

	"filecommit.io/storage"
)

// Mem is a storage.Storage implementation that keeps all files in memory.
// It is safe for concurrent use, which makes it suitable for racing many
// committing goroutines against one shared tree.
//
// Mod times are taken from its clock, which defaults to time.Now. Tests
// that drive the protocol's TTL logic replace it with a virtual clock
// through SetNow.
type Mem struct {
	mu    sync.Mutex
	now   func() time.Time
	files map[string]memFile
	dirs  map[string]bool
}

type memFile struct {
	data    []byte
	modTime time.Time
}

// Memory returns a new, empty Mem.
func Memory() *Mem {
	return &Mem{
		now:   time.Now,
		files: make(map[string]memFile),
		dirs:  make(map[string]bool),
	}
}

var _ storage.Storage = (*Mem)(nil)

// SetNow replaces the clock used to stamp written files.
func (m *Mem) SetNow(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// MakeDirectory implements storage.Storage.
func (m *Mem) MakeDirectory(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[gopath.Clean(name)] = true
	return nil
}

// Exists implements storage.Storage.
func (m *Mem) Exists(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = gopath.Clean(name)
	if _, ok := m.files[name]; ok {
		return true, nil
	}
	if m.dirs[name] {
		return true, nil
	}
	// A directory also exists if any file lives below it.
	prefix := name + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// List implements storage.Storage.
func (m *Mem) List(dir string, recursive bool) ([]storage.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := gopath.Clean(dir) + "/"
	var files []storage.File
	for name, f := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if !recursive && strings.Contains(name[len(prefix):], "/") {
			continue
		}
		files = append(files, storage.File{Name: gopath.Base(name), ModTime: f.modTime})
	}
	// Deterministic order keeps test failures readable; callers must not
	// depend on it.
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// PutWithoutGuarantees implements storage.Storage.
func (m *Mem) PutWithoutGuarantees(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[gopath.Clean(name)] = memFile{
		data:    append([]byte{}, data...),
		modTime: m.now(),
	}
	return nil
}

// Delete implements storage.Storage.
func (m *Mem) Delete(name string, recursive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = gopath.Clean(name)
	delete(m.files, name)
	delete(m.dirs, name)
	if !recursive {
		return nil
	}
	prefix := name + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			delete(m.files, f)
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

// Data returns the contents of the named file and whether it exists.
// It is a test hook, not part of the storage contract.
func (m *Mem) Data(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[gopath.Clean(name)]
	if !ok {
		return nil, false
	}
	return append([]byte{}, f.data...), true
}

// Touch sets the mod time of the named file, creating it if absent.
// Tests use it to age artifacts past a TTL.
func (m *Mem) Touch(name string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = gopath.Clean(name)
	f := m.files[name]
	f.modTime = t
	m.files[name] = f
}

// DummyStorage returns a storage.Storage that does nothing and always
// succeeds. It is useful for registry tests.
func DummyStorage(opts *storage.Opts) (storage.Storage, error) {
	return dummy{}, nil
}

type dummy struct{}

func (dummy) MakeDirectory(name string) error { return nil }

func (dummy) Exists(name string) (bool, error) { return false, nil }

func (dummy) List(dir string, recursive bool) ([]storage.File, error) { return nil, nil }

func (dummy) PutWithoutGuarantees(name string, data []byte) error { return nil }

func (dummy) Delete(name string, recursive bool) error { return nil }
