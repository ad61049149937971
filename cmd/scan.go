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

package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/forensicanalysis/fsaudit"
	"github.com/forensicanalysis/fsaudit/auditstore"
)

const sinceLayout = "2006-01-02 15:04:05"

// Scan is the fsaudit scan commandline subcommand
func Scan() *cobra.Command {
	var output, since string
	var workers int
	var anomaliesOnly, verbose, flagAllUID0 bool

	scanCommand := &cobra.Command{
		Use:   "scan <root>",
		Short: "Audit a filesystem image for account and persistence anomalies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Flags().Args()[0]

			opts := fsaudit.Options{
				Workers:       workers,
				AnomaliesOnly: anomaliesOnly,
				FlagAllUID0:   flagAllUID0,
			}
			if since != "" {
				cutoff, err := time.ParseInLocation(sinceLayout, since, time.Local)
				if err != nil {
					return errors.Wrapf(err, "invalid --since value %q", since)
				}
				opts.Cutoff = &cutoff
			}

			fs := afero.NewOsFs()
			report, err := fsaudit.Scan(cmd.Context(), fs, root, opts)
			if err != nil {
				return err
			}

			if verbose {
				for i := range report.TimestampFindings {
					finding := &report.TimestampFindings[i]
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", finding.Path, previewArtifact(fs, finding.Path))
				}
			}

			b, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)

			if output != "" {
				if err := persistReport(output, report); err != nil {
					return err
				}
			}

			// anomalies are not failures, a missing account database is
			return report.AccountErr
		},
	}
	scanCommand.Flags().StringVar(&output, "output", "", "persist findings to an audit store at this path")
	scanCommand.Flags().StringVar(&since, "since", "", "only report files modified after this time (\""+sinceLayout+"\")")
	scanCommand.Flags().IntVar(&workers, "workers", 0, "number of concurrent manifest walks")
	scanCommand.Flags().BoolVar(&anomaliesOnly, "anomalies-only", false, "drop timestamp findings without anomaly flags")
	scanCommand.Flags().BoolVar(&verbose, "verbose", false, "print a content preview per walked file")
	scanCommand.Flags().BoolVar(&flagAllUID0, "flag-all-uid0", false, "flag every uid 0 account, including the canonical superuser")
	return scanCommand
}

func persistReport(url string, report *fsaudit.Report) error {
	store, err := auditstore.New(url)
	if err != nil {
		return err
	}
	defer store.Close()

	var elements []interface{}
	for _, finding := range report.AccountFindings {
		elements = append(elements, finding)
	}
	for _, finding := range report.TimestampFindings {
		elements = append(elements, finding)
	}
	if len(elements) == 0 {
		return nil
	}

	_, err = store.InsertStructBatch(elements)
	return errors.Wrapf(err, "could not persist findings to %s", url)
}
