// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uniqueid generates the per-invocation client ids used to name a
// client's files inside an attempt workspace.
package uniqueid // import "filecommit.io/uniqueid"

import (
	"crypto/rand"

	"github.com/glycerine/base58"

	"filecommit.io/errors"
	"filecommit.io/filecommit"
)

// idBytes is the entropy per id. 16 random bytes make a clash across any
// realistic set of hosts and retries overwhelmingly improbable, which the
// contention adjudication depends on.
const idBytes = 16

// New returns a fresh client id. Ids are base58 encoded, so they contain
// no '@', '.' or '/' and can never collide with the layout's reserved names.
func New() (filecommit.ClientID, error) {
	const op errors.Op = "uniqueid.New"
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.E(op, errors.IO, err)
	}
	id := filecommit.ClientID(base58.Encode(b))
	if !id.Valid() {
		// Cannot happen with the base58 alphabet; guard the invariant anyway.
		return "", errors.E(op, errors.Invalid, errors.Errorf("generated invalid id %q", id))
	}
	return id, nil
}
