// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commit implements an optimistic commit coordinator for a
// versioned catalog kept entirely as files on a shared storage backend.
//
// Independent clients publish new catalog versions by writing files whose
// names, never their contents, carry the protocol's meaning. For any
// version number at most one client's commit becomes durable; every other
// client observes a Concurrent error and retries at the next version.
// There is no shared memory, no lock service and no leader: every decision
// point re-reads directory state so a racing client's work is observed.
//
// A commit walks the tree in three steps. The version resolver picks the
// target version from tracker/, rolling forward once if the previous
// version already carries a COMMIT-HINT. The attempt resolver picks the
// retry attempt under that version, rolling forward once past an attempt
// fenced by EXPIRED-HINT. The two-phase committer then writes its
// PRE_COMMIT marker, checks for peers, writes its commit file, rechecks,
// and finally publishes the COMMIT-HINT. A client wins only if no peer
// file is observed at either checkpoint.
package commit // import "filecommit.io/commit"

import (
	gopath "path"
	"strconv"
	"time"

	"filecommit.io/errors"
	"filecommit.io/filecommit"
	"filecommit.io/log"
	"filecommit.io/storage"
	"filecommit.io/uniqueid"
)

// Options tunes the protocol's retention and staleness behavior.
// A zero field takes its default.
type Options struct {
	// MaxSave is how many versions below current remain in tracker/
	// before the archiver retires them.
	MaxSave int

	// MaxArchiveSize is the archive size above which GC switches from
	// one deletion per call to batches.
	MaxArchiveSize int

	// ArchiveBatchMax is the GC batch size in batch mode.
	ArchiveBatchMax int

	// PreCommitTTL is how stale an attempt's newest file must be before
	// the adjudicator may fence the attempt or complete a predecessor's
	// hint. It is a liveness knob only; safety does not depend on it.
	PreCommitTTL time.Duration

	// CleanTTL is how long an archive tombstone lives before GC deletes
	// the commit workspace it retires.
	CleanTTL time.Duration
}

// Defaults for Options fields left zero.
const (
	DefaultMaxSave         = 2
	DefaultMaxArchiveSize  = 100
	DefaultArchiveBatchMax = 20
	DefaultPreCommitTTL    = 30 * time.Second
	DefaultCleanTTL        = 10 * time.Minute
)

func (o *Options) setDefaults() {
	if o.MaxSave == 0 {
		o.MaxSave = DefaultMaxSave
	}
	if o.MaxArchiveSize == 0 {
		o.MaxArchiveSize = DefaultMaxArchiveSize
	}
	if o.ArchiveBatchMax == 0 {
		o.ArchiveBatchMax = DefaultArchiveBatchMax
	}
	if o.PreCommitTTL == 0 {
		o.PreCommitTTL = DefaultPreCommitTTL
	}
	if o.CleanTTL == 0 {
		o.CleanTTL = DefaultCleanTTL
	}
}

// A Receipt reports a successful publication.
type Receipt struct {
	Version filecommit.Version
	Attempt filecommit.Attempt
	Client  filecommit.ClientID
}

// A Strategy publishes one new catalog version or fails. A failure of kind
// errors.Concurrent means another client's artifact was observed; the whole
// call may be retried after backoff and will resolve a fresh version.
type Strategy interface {
	Commit() (*Receipt, error)
}

// FileTracker is the file-based Strategy. It is stateless between calls;
// all coordination state lives in the storage tree, so any number of
// FileTrackers in any number of processes may share one root.
type FileTracker struct {
	store  storage.Storage
	layout layout
	opts   Options
	now    func() time.Time
	newID  func() (filecommit.ClientID, error)
}

var _ Strategy = (*FileTracker)(nil)

// An Option configures a FileTracker beyond its defaults.
type Option func(*FileTracker)

// WithOptions sets the protocol knobs. Zero fields keep their defaults.
func WithOptions(opts Options) Option {
	return func(t *FileTracker) { t.opts = opts }
}

// WithClock sets the clock used for TTL comparisons and tombstone
// expirations. Tests drive a virtual clock through it.
func WithClock(now func() time.Time) Option {
	return func(t *FileTracker) { t.now = now }
}

// WithIDGenerator sets the client id generator. Two retries by the same
// process must still yield distinct ids.
func WithIDGenerator(newID func() (filecommit.ClientID, error)) Option {
	return func(t *FileTracker) { t.newID = newID }
}

// New returns a FileTracker operating on the tree under root.
func New(store storage.Storage, root filecommit.PathName, setup ...Option) *FileTracker {
	t := &FileTracker{
		store:  store,
		layout: layout{root: string(root)},
		now:    time.Now,
		newID:  uniqueid.New,
	}
	for _, opt := range setup {
		opt(t)
	}
	t.opts.setDefaults()
	return t
}

// Commit attempts to publish the next catalog version. On success the
// version's COMMIT-HINT and debug witness are durable, superseded trackers
// are archived and expired workspaces collected, and the receipt names the
// published version. On a Concurrent error another client interfered and
// the caller may retry; any files this client wrote remain as debris for
// the adjudicator and GC of later calls.
func (t *FileTracker) Commit() (*Receipt, error) {
	const op errors.Op = "commit.Commit"

	vs, err := t.resolveVersion()
	if err != nil {
		return nil, errors.E(op, err)
	}
	as, err := t.resolveAttempt(vs)
	if err != nil {
		return nil, errors.E(op, err)
	}

	entries, err := t.store.List(as.dir, false)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	if len(entries) > 0 {
		// Somebody was here first. Never returns nil.
		return nil, errors.E(op, t.adjudicate(vs, as, entries))
	}

	id, err := t.newID()
	if err != nil {
		return nil, errors.E(op, err)
	}
	commitName := string(id) + nameSuffix
	preCommitName := filecommit.PreCommitPrefix + commitName

	// Phase one: announce intent, then look for peers.
	if err := t.put(op, gopath.Join(as.dir, preCommitName), preCommitName); err != nil {
		return nil, err
	}
	peers, err := t.listOthers(as.dir, preCommitName)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	if len(peers) > 0 {
		return nil, errors.E(op, errors.Concurrent, id, errors.Str("peer observed after pre-commit"))
	}

	// Phase two: commit, then look again. A peer that entered phase one
	// while we were between writes is caught here, as is an expired
	// marker racing in.
	if err := t.put(op, gopath.Join(as.dir, commitName), string(id)); err != nil {
		return nil, err
	}
	peers, err = t.listOthers(as.dir, preCommitName, commitName)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	if len(peers) > 0 {
		return nil, errors.E(op, errors.Concurrent, id, errors.Str("peer observed after commit"))
	}

	// Publish. The hint's appearance is what makes the version visible.
	hint := string(id) + "@" + strconv.FormatInt(int64(as.attempt), 10)
	if err := t.put(op, vs.hintFile, hint); err != nil {
		return nil, err
	}
	if err := t.put(op, gopath.Join(vs.subHintDir, commitName), string(id)); err != nil {
		return nil, err
	}
	log.Debug.Printf("commit: client %s published version %d attempt %d", id, vs.version, as.attempt)

	trackers, err := t.store.List(t.layout.trackerDir(), false)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	if err := t.archiveOld(trackers, vs.version); err != nil {
		return nil, errors.E(op, err)
	}
	if err := t.gc(); err != nil {
		return nil, errors.E(op, err)
	}

	return &Receipt{Version: vs.version, Attempt: as.attempt, Client: id}, nil
}

// put writes body as the whole content of name.
func (t *FileTracker) put(op errors.Op, name, body string) error {
	if err := t.store.PutWithoutGuarantees(name, []byte(body)); err != nil {
		return errors.E(op, errors.IO, filecommit.PathName(name), err)
	}
	return nil
}

// listOthers lists dir, leaving out this client's own files.
func (t *FileTracker) listOthers(dir string, own ...string) ([]storage.File, error) {
	entries, err := t.store.List(dir, false)
	if err != nil {
		return nil, err
	}
	var others []storage.File
outer:
	for _, e := range entries {
		for _, name := range own {
			if e.Name == name {
				continue outer
			}
		}
		others = append(others, e)
	}
	return others, nil
}
