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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analysisTime = time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC) // nolint:gochecknoglobals

func TestCheckTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		modified  time.Time
		wantDays  int
		wantFlags []TimestampFlag
	}{
		{"modified an hour ago", analysisTime.Add(-time.Hour), 0, []TimestampFlag{ModifiedToday}},
		{"modified just now", analysisTime, 0, []TimestampFlag{ModifiedToday}},
		{"modified yesterday", analysisTime.Add(-30 * time.Hour), 1, nil},
		{"modified last year", analysisTime.AddDate(-1, 0, 0), 366, nil}, // 2020 is a leap year
		{"future same year", analysisTime.Add(48 * time.Hour), -2, nil},
		{"future next year", analysisTime.AddDate(1, 0, 0), -365, []TimestampFlag{FutureTimestamp}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := FileArtifact{Path: "/mnt/root/etc/crontab", ModifiedAt: tt.modified}

			finding := CheckTimestamp(artifact, analysisTime, nil, "System crontab")
			require.NotNil(t, finding)
			assert.Equal(t, tt.wantDays, finding.DaysSinceModification)
			assert.Equal(t, tt.wantFlags, finding.Flags)
			assert.Equal(t, "/mnt/root/etc/crontab", finding.Path)
			assert.Equal(t, "System crontab", finding.Category)
			assert.Equal(t, tt.modified.UTC().Format(time.RFC3339), finding.Mtime)
		})
	}
}

func TestCheckTimestampFutureSSHKey(t *testing.T) {
	artifact := FileArtifact{
		Path:       "/mnt/root/root/.ssh/authorized_keys",
		ModifiedAt: analysisTime.AddDate(1, 0, 0),
	}

	finding := CheckTimestamp(artifact, analysisTime, nil, "Root SSH directory")
	require.NotNil(t, finding)
	assert.True(t, finding.HasFlag(FutureTimestamp))
	assert.False(t, finding.HasFlag(ModifiedToday))
}

func TestCheckTimestampCutoff(t *testing.T) {
	cutoff := analysisTime.Add(-24 * time.Hour)

	tests := []struct {
		name       string
		modified   time.Time
		suppressed bool
	}{
		{"before cutoff", cutoff.Add(-time.Hour), true},
		{"at cutoff", cutoff, true},
		{"after cutoff", cutoff.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := FileArtifact{Path: "/mnt/root/etc/crontab", ModifiedAt: tt.modified}

			finding := CheckTimestamp(artifact, analysisTime, &cutoff, "System crontab")
			if tt.suppressed {
				assert.Nil(t, finding)
			} else {
				assert.NotNil(t, finding)
			}
		})
	}
}

func TestCheckTimestampFilteredSubset(t *testing.T) {
	artifacts := []FileArtifact{
		{Path: "/a", ModifiedAt: analysisTime.Add(-72 * time.Hour)},
		{Path: "/b", ModifiedAt: analysisTime.Add(-36 * time.Hour)},
		{Path: "/c", ModifiedAt: analysisTime.Add(-time.Hour)},
	}
	cutoff := analysisTime.Add(-48 * time.Hour)

	unfiltered := map[string]bool{}
	for _, artifact := range artifacts {
		if f := CheckTimestamp(artifact, analysisTime, nil, "x"); f != nil {
			unfiltered[f.Path] = true
		}
	}
	for _, artifact := range artifacts {
		f := CheckTimestamp(artifact, analysisTime, &cutoff, "x")
		if f == nil {
			continue
		}
		assert.True(t, unfiltered[f.Path], "filtered set must be a subset of the unfiltered set")
	}
}

func TestFilterAnomalies(t *testing.T) {
	findings := []TimestampFinding{
		{Path: "/a", Flags: []TimestampFlag{ModifiedToday}},
		{Path: "/b"},
		{Path: "/c", Flags: []TimestampFlag{FutureTimestamp}},
	}

	anomalies := FilterAnomalies(findings)
	require.Len(t, anomalies, 2)
	assert.Equal(t, "/a", anomalies[0].Path)
	assert.Equal(t, "/c", anomalies[1].Path)
}
