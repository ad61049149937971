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
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Options configures a scan. Zero fields are filled from DefaultOptions.
type Options struct {
	// Manifest lists the locations walked for persistence artifacts.
	Manifest []ManifestEntry
	// Cutoff suppresses files modified at or before this time.
	Cutoff *time.Time
	// Now is the analysis time, defaults to time.Now.
	Now time.Time
	// Workers bounds the number of concurrent manifest walks.
	Workers int
	// AnomaliesOnly drops timestamp findings without flags.
	AnomaliesOnly bool
	// FlagAllUID0 restores the original behavior of flagging every uid 0
	// account, including the canonical superuser.
	FlagAllUID0 bool
}

// DefaultOptions returns the options used for unset fields.
func DefaultOptions() Options {
	return Options{
		Manifest: DefaultManifest(),
		Workers:  4,
	}
}

// Report is the combined result of the account check and the persistence
// timestamp check of a single scan.
type Report struct {
	Root              string             `json:"root"`
	Started           time.Time          `json:"started"`
	Finished          time.Time          `json:"finished"`
	AccountFindings   []AccountFinding   `json:"account_findings"`
	TimestampFindings []TimestampFinding `json:"timestamp_findings"`
	ScannedFiles      int                `json:"scanned_files"`
	SoftErrors        int                `json:"soft_errors"`

	// AccountErr is set when the account database could not be read. It
	// aborts the account check only, never the timestamp check.
	AccountErr error `json:"-"`
}

// Scan audits the filesystem image below root. The account check and the
// manifest walks run concurrently; findings are merged per manifest entry
// after that entry's walk completes. On cancellation the partial report is
// returned together with ctx.Err().
func Scan(ctx context.Context, fs afero.Fs, root string, opts Options) (*Report, error) {
	if err := mergo.Merge(&opts, DefaultOptions()); err != nil {
		return nil, errors.Wrap(err, "could not apply default options")
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	exists, err := afero.DirExists(fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, "could not access scan root %s", root)
	}
	if !exists {
		return nil, errors.Wrapf(os.ErrNotExist, "scan root %s", root)
	}

	report := &Report{Root: root, Started: time.Now()}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		records, err := ReadAccounts(fs, root)
		if err != nil {
			report.AccountErr = err
			return
		}
		report.AccountFindings = CheckAccounts(records, opts)
	}()

	entries := make(chan ManifestEntry)
	var mu sync.Mutex
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entries {
				artifacts, softErrors, err := WalkArtifacts(ctx, fs, root, entry.RelPath)
				if err != nil {
					if ctx.Err() != nil {
						// cancelled mid walk, the incomplete entry is dropped
						continue
					}
					log.Printf("could not walk %s: %v", entry.RelPath, err)
					mu.Lock()
					report.SoftErrors++
					mu.Unlock()
					continue
				}

				var findings []TimestampFinding
				for _, artifact := range artifacts {
					finding := CheckTimestamp(artifact, opts.Now, opts.Cutoff, entry.Category)
					if finding == nil {
						continue
					}
					if opts.AnomaliesOnly && !finding.Anomalous() {
						continue
					}
					findings = append(findings, *finding)
				}

				mu.Lock()
				report.TimestampFindings = append(report.TimestampFindings, findings...)
				report.ScannedFiles += len(artifacts)
				report.SoftErrors += softErrors
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(entries)
		for _, entry := range opts.Manifest {
			select {
			case entries <- entry:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	report.Finished = time.Now()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
