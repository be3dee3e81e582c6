// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filecommit defines the shared types and the file-name vocabulary
// used by the commit protocol and the storage backends that carry it.
package filecommit // import "filecommit.io/filecommit"

import "strings"

// A Version identifies a published catalog state. Versions are monotonic;
// the largest version present under tracker/ is the current target.
type Version int64

// An Attempt is a retry index within a single unpublished version.
type Attempt int64

// A ClientID is the per-invocation unique identity of a committing client.
// Every file a client writes inside an attempt workspace carries its id.
type ClientID string

// A PathName is a slash-separated name interpreted by a storage backend,
// relative to the backend's base. It is given a unique type so the API
// is clear.
type PathName string

// Reserved file names and prefixes of the on-storage layout. The names,
// not the file contents, carry the protocol's meaning.
const (
	// CommitHint marks a version as published. It lives in the version's
	// sub-hint directory and its body names the winning client and attempt.
	CommitHint = "COMMIT-HINT.TXT"

	// ExpiredHint marks an attempt as dead. Once present, no client may
	// publish from that attempt; the next attempt index is used instead.
	ExpiredHint = "EXPIRED-HINT.TXT"

	// PreCommitPrefix prefixes the phase-one marker a client writes before
	// its commit file.
	PreCommitPrefix = "PRE_COMMIT-"

	// ExpiredBody is the body written to every ExpiredHint file.
	ExpiredBody = "EXPIRED!"
)

// Valid reports whether id may be used as a client id. A valid id never
// collides with the reserved names above, never begins with the pre-commit
// prefix, and contains none of the characters the layout gives meaning to.
func (id ClientID) Valid() bool {
	s := string(id)
	if s == "" || s == CommitHint || s == ExpiredHint {
		return false
	}
	if strings.HasPrefix(s, PreCommitPrefix) {
		return false
	}
	return !strings.ContainsAny(s, "@/.")
}
