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

// The fsaudit command audits mounted or extracted filesystem images for
// account tampering and persistence mechanisms.
//
//	fsaudit scan      Audit an image root and report findings as json
//	fsaudit findings  Query a persisted findings store (get, select, all)
//
// # Usage
//
// Audit an image and keep the findings:
//
//	fsaudit scan --output case42.auditstore /mnt/root
//
// Only look at changes after a known good date:
//
//	fsaudit scan --since "2020-01-31 00:00:00" --anomalies-only /mnt/root
//
// Query stored findings:
//
//	fsaudit findings select timestamp-finding case42.auditstore
//	fsaudit findings all case42.auditstore > export.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/fsaudit/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fsaudit",
		Short: "Audit filesystem images for account and persistence anomalies",
	}
	rootCmd.AddCommand(cmd.Scan(), cmd.Findings())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
