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
	"math"
	"time"
)

const secondsPerDay = 86400

// CheckTimestamp classifies a walked file relative to the analysis time.
// Files modified at or before the optional cutoff are suppressed entirely
// and yield nil. Every other file yields a finding; ModifiedToday is set
// when the file changed within the last day, FutureTimestamp when its
// modification year exceeds the analysis year.
func CheckTimestamp(artifact FileArtifact, now time.Time, cutoff *time.Time, category string) *TimestampFinding {
	if cutoff != nil && !artifact.ModifiedAt.After(*cutoff) {
		return nil
	}

	// floor, so future files in the same year get a negative day count
	days := int(math.Floor(now.Sub(artifact.ModifiedAt).Seconds() / secondsPerDay))

	finding := &TimestampFinding{
		ID:                    NewFindingID(TypeTimestampFinding),
		Type:                  TypeTimestampFinding,
		Path:                  artifact.Path,
		Mtime:                 artifact.ModifiedAt.UTC().Format(time.RFC3339),
		DaysSinceModification: days,
		Category:              category,
	}
	if days == 0 {
		finding.Flags = append(finding.Flags, ModifiedToday)
	}
	if artifact.ModifiedAt.Year() > now.Year() {
		finding.Flags = append(finding.Flags, FutureTimestamp)
	}
	return finding
}

// FilterAnomalies reduces findings to those carrying at least one flag.
func FilterAnomalies(findings []TimestampFinding) []TimestampFinding {
	var anomalies []TimestampFinding
	for _, finding := range findings {
		if finding.Anomalous() {
			anomalies = append(anomalies, finding)
		}
	}
	return anomalies
}
