// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commit

import (
	"strconv"

	"filecommit.io/errors"
	"filecommit.io/filecommit"
)

// resolveVersion picks the version this commit will target. The tracker is
// a hint, not the truth: a predecessor may have published and crashed
// before writing its tracker, so when the chosen version already carries a
// COMMIT-HINT the resolver rolls forward exactly once. It never probes
// further and it never loops.
func (t *FileTracker) resolveVersion() (versionSpace, error) {
	const op errors.Op = "commit.resolveVersion"

	l := t.layout
	for _, dir := range []string{l.trackerDir(), l.commitRoot(), l.archiveDir()} {
		if err := t.store.MakeDirectory(dir); err != nil {
			return versionSpace{}, errors.E(op, errors.IO, err)
		}
	}

	trackers, err := t.store.List(l.trackerDir(), false)
	if err != nil {
		return versionSpace{}, errors.E(op, errors.IO, err)
	}
	max, err := maxNumber(trackers)
	if err != nil {
		return versionSpace{}, errors.E(op, err)
	}
	vs := l.versionSpace(filecommit.Version(max))

	published, err := t.store.Exists(vs.hintFile)
	if err != nil {
		return versionSpace{}, errors.E(op, errors.IO, err)
	}
	if published {
		vs = l.versionSpace(vs.version + 1)
	}

	// The sentinel write is best-effort; its name matters, its content is
	// informational.
	ok, err := t.store.Exists(vs.trackerFile)
	if err != nil {
		return versionSpace{}, errors.E(op, errors.IO, err)
	}
	if !ok {
		if err := t.put(op, vs.trackerFile, strconv.FormatInt(int64(vs.version), 10)); err != nil {
			return versionSpace{}, err
		}
	}

	for _, dir := range []string{vs.dir, vs.subTrackerDir, vs.subHintDir} {
		if err := t.store.MakeDirectory(dir); err != nil {
			return versionSpace{}, errors.E(op, errors.IO, err)
		}
	}
	return vs, nil
}

// resolveAttempt picks the retry attempt under vs, rolling forward exactly
// once past an attempt fenced by EXPIRED-HINT.
func (t *FileTracker) resolveAttempt(vs versionSpace) (attemptSpace, error) {
	const op errors.Op = "commit.resolveAttempt"

	subTrackers, err := t.store.List(vs.subTrackerDir, false)
	if err != nil {
		return attemptSpace{}, errors.E(op, errors.IO, err)
	}
	max, err := maxNumber(subTrackers)
	if err != nil {
		return attemptSpace{}, errors.E(op, err)
	}
	as := vs.attemptSpace(filecommit.Attempt(max))

	expired, err := t.store.Exists(as.expiredFile)
	if err != nil {
		return attemptSpace{}, errors.E(op, errors.IO, err)
	}
	if expired {
		as = vs.attemptSpace(as.attempt + 1)
	}

	ok, err := t.store.Exists(as.trackerFile)
	if err != nil {
		return attemptSpace{}, errors.E(op, errors.IO, err)
	}
	if !ok {
		if err := t.put(op, as.trackerFile, strconv.FormatInt(int64(as.attempt), 10)); err != nil {
			return attemptSpace{}, err
		}
	}

	if err := t.store.MakeDirectory(as.dir); err != nil {
		return attemptSpace{}, errors.E(op, errors.IO, err)
	}
	return as, nil
}
