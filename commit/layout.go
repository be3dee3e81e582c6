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
	"filecommit.io/storage"
)

// nameSuffix terminates every numbered or client-owned file name.
const nameSuffix = ".txt"

// layout derives every path of the on-storage tree from the root.
// The tree looks like
//
//	<root>/tracker/<V>.txt
//	<root>/archive/<V>.txt@<expireMillis>
//	<root>/commit/<V>/sub-tracker/<S>.txt
//	<root>/commit/<V>/sub-hint/COMMIT-HINT.TXT
//	<root>/commit/<V>/<S>/...
type layout struct {
	root string
}

func (l layout) trackerDir() string { return gopath.Join(l.root, "tracker") }
func (l layout) commitRoot() string { return gopath.Join(l.root, "commit") }
func (l layout) archiveDir() string { return gopath.Join(l.root, "archive") }

// versionSpace holds the paths derived from one target version.
type versionSpace struct {
	version       filecommit.Version
	trackerFile   string
	dir           string
	subTrackerDir string
	subHintDir    string
	hintFile      string
}

func (l layout) versionSpace(v filecommit.Version) versionSpace {
	dir := gopath.Join(l.commitRoot(), strconv.FormatInt(int64(v), 10))
	subHintDir := gopath.Join(dir, "sub-hint")
	return versionSpace{
		version:       v,
		trackerFile:   gopath.Join(l.trackerDir(), numberName(int64(v))),
		dir:           dir,
		subTrackerDir: gopath.Join(dir, "sub-tracker"),
		subHintDir:    subHintDir,
		hintFile:      gopath.Join(subHintDir, filecommit.CommitHint),
	}
}

// attemptSpace holds the paths derived from one attempt under a version.
type attemptSpace struct {
	attempt     filecommit.Attempt
	trackerFile string
	dir         string
	expiredFile string
}

func (vs versionSpace) attemptSpace(s filecommit.Attempt) attemptSpace {
	dir := gopath.Join(vs.dir, strconv.FormatInt(int64(s), 10))
	return attemptSpace{
		attempt:     s,
		trackerFile: gopath.Join(vs.subTrackerDir, numberName(int64(s))),
		dir:         dir,
		expiredFile: gopath.Join(dir, filecommit.ExpiredHint),
	}
}

// numberName renders n as a tracker-style file name, "7.txt".
func numberName(n int64) string {
	return strconv.FormatInt(n, 10) + nameSuffix
}

// parseNumberName extracts the integer stem of names like "7.txt".
// The file name, not its content, is authoritative.
func parseNumberName(name string) (int64, error) {
	stem := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		stem = name[:i]
	}
	n, err := strconv.ParseInt(stem, 10, 64)
	if err != nil {
		return 0, errors.E(errors.Corrupt, errors.Errorf("malformed version name %q", name))
	}
	return n, nil
}

// parseTombstoneName splits an archive name "V.txt@T" into the version it
// retires and the millisecond timestamp after which GC may act on it.
func parseTombstoneName(name string) (version, expire int64, err error) {
	version, err = parseNumberName(name)
	if err != nil {
		return 0, 0, err
	}
	i := strings.IndexByte(name, '@')
	if i < 0 {
		return 0, 0, errors.E(errors.Corrupt, errors.Errorf("archive name %q has no expiration", name))
	}
	expire, err = strconv.ParseInt(name[i+1:], 10, 64)
	if err != nil {
		return 0, 0, errors.E(errors.Corrupt, errors.Errorf("archive name %q has a malformed expiration", name))
	}
	return version, expire, nil
}

// maxNumber returns the largest integer stem among the listed files,
// or 0 when the listing is empty.
func maxNumber(files []storage.File) (int64, error) {
	var max int64
	for _, f := range files {
		n, err := parseNumberName(f.Name)
		if err != nil {
			return 0, err
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// millis renders t the way the layout stores timestamps.
func millis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}
