// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commit

import (
	gopath "path"
	"sort"
	"strconv"

	"filecommit.io/errors"
	"filecommit.io/filecommit"
	"filecommit.io/log"
	"filecommit.io/storage"
)

// archiveOld retires trackers that have fallen more than MaxSave versions
// behind current: each gets a tombstone in archive/ carrying its
// expiration, then its sentinel is deleted. The existence check is on the
// exact tombstone name, so concurrent archivers may leave tombstones with
// different expirations for one version; that only delays cleanup.
//
// Archival runs on the success path only, so a run of failing commits does
// not advance it. GC remains callable on its own for that case.
func (t *FileTracker) archiveOld(trackers []storage.File, current filecommit.Version) error {
	const op errors.Op = "commit.archive"

	for _, f := range trackers {
		v, err := parseNumberName(f.Name)
		if err != nil {
			return errors.E(op, err)
		}
		if int64(current)-v <= int64(t.opts.MaxSave) {
			continue
		}
		expire := strconv.FormatInt(millis(t.now().Add(t.opts.CleanTTL)), 10)
		tomb := gopath.Join(t.layout.archiveDir(), f.Name+"@"+expire)
		ok, err := t.store.Exists(tomb)
		if err != nil {
			return errors.E(op, errors.IO, err)
		}
		if !ok {
			if err := t.put(op, tomb, expire); err != nil {
				return err
			}
		}
		if err := t.store.Delete(gopath.Join(t.layout.trackerDir(), f.Name), false); err != nil {
			return errors.E(op, errors.IO, err)
		}
		log.Debug.Printf("commit: archived tracker %s", f.Name)
	}
	return nil
}

// GC deletes the commit workspaces of expired archive tombstones, then the
// tombstones themselves. Every successful Commit runs it; operators may
// also run it alone, for example when commits keep failing and debris
// accumulates.
func (t *FileTracker) GC() error {
	const op errors.Op = "commit.GC"
	if err := t.gc(); err != nil {
		return errors.E(op, err)
	}
	return nil
}

func (t *FileTracker) gc() error {
	const op errors.Op = "commit.gc"

	entries, err := t.store.List(t.layout.archiveDir(), false)
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	type tombstone struct {
		name    string
		version int64
		expire  int64
	}
	tombs := make([]tombstone, 0, len(entries))
	for _, e := range entries {
		v, expire, err := parseTombstoneName(e.Name)
		if err != nil {
			return errors.E(op, err)
		}
		tombs = append(tombs, tombstone{name: e.Name, version: v, expire: expire})
	}
	sort.Slice(tombs, func(i, j int) bool { return tombs[i].version < tombs[j].version })

	// At least one tombstone is examined per call. Once the archive grows
	// past MaxArchiveSize, single deletions cannot keep up with the write
	// rate, so the batch widens.
	n := 0
	if len(tombs) > 0 {
		n = 1
	}
	if len(tombs) > t.opts.MaxArchiveSize {
		n = t.opts.ArchiveBatchMax
		if n > len(tombs) {
			n = len(tombs)
		}
	}

	now := millis(t.now())
	for i := 0; i < n; i++ {
		tb := tombs[i]
		if now <= tb.expire {
			continue
		}
		workspace := gopath.Join(t.layout.commitRoot(), strconv.FormatInt(tb.version, 10))
		if err := t.store.Delete(workspace, true); err != nil {
			return errors.E(op, errors.IO, err)
		}
		if err := t.store.Delete(gopath.Join(t.layout.archiveDir(), tb.name), false); err != nil {
			return errors.E(op, errors.IO, err)
		}
		log.Debug.Printf("commit: collected version %d", tb.version)
	}
	return nil
}
