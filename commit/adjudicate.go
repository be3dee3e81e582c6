// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commit

import (
	gopath "path"
	"strconv"
	"strings"
	"time"

	"filecommit.io/errors"
	"filecommit.io/filecommit"
	"filecommit.io/log"
	"filecommit.io/storage"
)

// adjudicate decides what a non-empty attempt workspace means. It runs
// before this client has written anything, and always returns an error:
// of kind Concurrent, since the attempt belongs to someone else whatever
// else we learn about it, or of kind IO when one of its own storage calls
// fails. Along the way it may fence the attempt with
// EXPIRED-HINT, or complete the COMMIT-HINT of a predecessor that finished
// both phases and died before publishing.
//
// mtimes come from the storage backend. The TTL is large relative to any
// expected clock skew between backend and client, and it only gates
// recovery; safety never depends on it.
func (t *FileTracker) adjudicate(vs versionSpace, as attemptSpace, entries []storage.File) error {
	const op errors.Op = "commit.adjudicate"

	groups := groupByClient(entries)

	// Two or more clients mid phase one: none of them can safely advance,
	// so the whole attempt is fenced at once.
	singles := 0
	for _, g := range groups {
		if len(g) == 1 {
			singles++
		}
	}
	if singles == len(groups) && len(groups) > 1 {
		if err := t.put(op, as.expiredFile, filecommit.ExpiredBody); err != nil {
			return err
		}
		log.Info.Printf("commit: fenced attempt %d of version %d: %d clients in flight", as.attempt, vs.version, len(groups))
		return errors.E(op, errors.Concurrent, errors.Str("multiple clients entered the attempt"))
	}

	var latest time.Time
	for _, e := range entries {
		if e.ModTime.After(latest) {
			latest = e.ModTime
		}
	}
	if t.now().Sub(latest) > t.opts.PreCommitTTL {
		published, err := t.store.Exists(vs.hintFile)
		if err != nil {
			return errors.E(op, errors.IO, err)
		}
		if !published {
			if key, ok := soleFinishedClient(groups); ok {
				// A predecessor completed both phases and died before
				// publishing. There is no concurrency left to lose to, so
				// any client may complete its hint. We still fail below:
				// the version now belongs to the predecessor.
				id := filecommit.ClientID(strings.TrimSuffix(key, nameSuffix))
				hint := string(id) + "@" + strconv.FormatInt(int64(as.attempt), 10)
				if err := t.put(op, vs.hintFile, hint); err != nil {
					return err
				}
				if err := t.put(op, gopath.Join(vs.subHintDir, key), string(id)); err != nil {
					return err
				}
				log.Info.Printf("commit: recovered hint %s for version %d", hint, vs.version)
				return errors.E(op, errors.Concurrent, id, errors.Str("completed a crashed predecessor's commit"))
			}
			// Stale partial progress that cannot be completed
			// unambiguously.
			if err := t.put(op, as.expiredFile, filecommit.ExpiredBody); err != nil {
				return err
			}
			log.Info.Printf("commit: fenced stale attempt %d of version %d", as.attempt, vs.version)
		}
	}
	return errors.E(op, errors.Concurrent, errors.Str("attempt workspace is not empty"))
}

// groupByClient buckets an attempt's files by the client that owns them.
// Stripping the pre-commit prefix makes a client's marker and commit file
// share a key. The EXPIRED marker belongs to no client and is skipped.
func groupByClient(entries []storage.File) map[string][]storage.File {
	groups := make(map[string][]storage.File)
	for _, e := range entries {
		if e.Name == filecommit.ExpiredHint {
			continue
		}
		key := strings.TrimPrefix(e.Name, filecommit.PreCommitPrefix)
		groups[key] = append(groups[key], e)
	}
	return groups
}

// soleFinishedClient returns the one client key present when exactly one
// client owns files in the attempt and that client wrote both its
// pre-commit marker and its commit file.
func soleFinishedClient(groups map[string][]storage.File) (string, bool) {
	if len(groups) != 1 {
		return "", false
	}
	for key, g := range groups {
		if len(g) == 2 {
			return key, true
		}
	}
	return "", false
}
