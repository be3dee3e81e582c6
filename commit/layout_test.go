// Copyright 2026 The Filecommit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commit

import (
	"testing"

	"filecommit.io/errors"
	"filecommit.io/storage"
)

func TestVersionSpacePaths(t *testing.T) {
	l := layout{root: "data/cat"}
	vs := l.versionSpace(7)
	cases := []struct{ got, want string }{
		{vs.trackerFile, "data/cat/tracker/7.txt"},
		{vs.dir, "data/cat/commit/7"},
		{vs.subTrackerDir, "data/cat/commit/7/sub-tracker"},
		{vs.subHintDir, "data/cat/commit/7/sub-hint"},
		{vs.hintFile, "data/cat/commit/7/sub-hint/COMMIT-HINT.TXT"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}

	as := vs.attemptSpace(2)
	if as.trackerFile != "data/cat/commit/7/sub-tracker/2.txt" {
		t.Errorf("attempt tracker = %q", as.trackerFile)
	}
	if as.dir != "data/cat/commit/7/2" {
		t.Errorf("attempt dir = %q", as.dir)
	}
	if as.expiredFile != "data/cat/commit/7/2/EXPIRED-HINT.TXT" {
		t.Errorf("expired file = %q", as.expiredFile)
	}
}

func TestParseNumberName(t *testing.T) {
	cases := []struct {
		name string
		n    int64
		ok   bool
	}{
		{"0.txt", 0, true},
		{"42.txt", 42, true},
		{"7", 7, true},
		{"9.txt@123", 9, true},
		{"", 0, false},
		{"x.txt", 0, false},
		{".txt", 0, false},
	}
	for _, c := range cases {
		n, err := parseNumberName(c.name)
		if c.ok != (err == nil) {
			t.Errorf("parseNumberName(%q) error = %v, want ok=%v", c.name, err, c.ok)
			continue
		}
		if err != nil {
			if !errors.Is(errors.Corrupt, err) {
				t.Errorf("parseNumberName(%q) error kind = %v, want corrupt", c.name, err)
			}
			continue
		}
		if n != c.n {
			t.Errorf("parseNumberName(%q) = %d, want %d", c.name, n, c.n)
		}
	}
}

func TestParseTombstoneName(t *testing.T) {
	v, expire, err := parseTombstoneName("5.txt@1700000000123")
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 || expire != 1700000000123 {
		t.Errorf("got version %d expire %d", v, expire)
	}

	for _, name := range []string{"5.txt", "5.txt@", "5.txt@later", "x.txt@12"} {
		if _, _, err := parseTombstoneName(name); !errors.Is(errors.Corrupt, err) {
			t.Errorf("parseTombstoneName(%q) = %v, want corrupt", name, err)
		}
	}
}

func TestMaxNumber(t *testing.T) {
	max, err := maxNumber(nil)
	if err != nil || max != 0 {
		t.Errorf("empty listing: got %d, %v", max, err)
	}
	max, err = maxNumber([]storage.File{{Name: "3.txt"}, {Name: "11.txt"}, {Name: "7.txt"}})
	if err != nil || max != 11 {
		t.Errorf("got %d, %v, want 11", max, err)
	}
	if _, err := maxNumber([]storage.File{{Name: "3.txt"}, {Name: "junk"}}); !errors.Is(errors.Corrupt, err) {
		t.Errorf("got %v, want corrupt", err)
	}
}
