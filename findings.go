// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package fsaudit

import (
	"time"

	"github.com/google/uuid"
)

// Element types used as the discriminator for stored findings.
const (
	TypeAccountFinding   = "account-finding"
	TypeTimestampFinding = "timestamp-finding"
)

// NewFindingID returns a fresh element id for the given finding type.
func NewFindingID(findingType string) string {
	return findingType + "--" + uuid.New().String()
}

// AccountRecord is a single entry of the account database.
type AccountRecord struct {
	Username string
	UID      int
	GID      int
	Comment  string
	Home     string
	Shell    string
}

// AccountFindingKind names the rule that produced an AccountFinding.
type AccountFindingKind string

// Account anomaly rules.
const (
	DuplicateUID               AccountFindingKind = "duplicate-uid"
	DuplicateGID               AccountFindingKind = "duplicate-gid"
	SuspiciousUID0             AccountFindingKind = "suspicious-uid0"
	UnexpectedInteractiveShell AccountFindingKind = "unexpected-interactive-shell"
	NonStandardHome            AccountFindingKind = "non-standard-home"
)

// AccountFinding is a flagged account database anomaly. Duplicate findings
// implicate multiple records, so Usernames is a list in database order.
type AccountFinding struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Kind      AccountFindingKind `json:"kind"`
	Usernames []string           `json:"usernames"`
	Detail    string             `json:"detail,omitempty"`
}

// FileArtifact is a regular file discovered beneath a manifest path.
type FileArtifact struct {
	Path       string
	ModifiedAt time.Time
}

// TimestampFlag marks a timestamp anomaly on a walked file.
type TimestampFlag string

// Timestamp anomaly flags.
const (
	ModifiedToday   TimestampFlag = "modified-today"
	FutureTimestamp TimestampFlag = "future-timestamp"
)

// TimestampFinding records the modification metadata of one file found under
// a manifest path. A finding without flags is a baseline informational
// record.
type TimestampFinding struct {
	ID                    string          `json:"id"`
	Type                  string          `json:"type"`
	Path                  string          `json:"path"`
	Mtime                 string          `json:"mtime"`
	DaysSinceModification int             `json:"days_since_modification"`
	Flags                 []TimestampFlag `json:"flags,omitempty"`
	Category              string          `json:"category"`
}

// Anomalous reports whether the finding carries at least one anomaly flag.
func (f *TimestampFinding) Anomalous() bool {
	return len(f.Flags) > 0
}

// HasFlag reports whether the finding carries the given flag.
func (f *TimestampFinding) HasFlag(flag TimestampFlag) bool {
	for _, set := range f.Flags {
		if set == flag {
			return true
		}
	}
	return false
}
