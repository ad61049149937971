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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func setupImage(t *testing.T) string {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0755))
	passwd := "root:x:0:0:root:/root:/bin/bash\n" +
		"toor:x:0:0:toor:/root:/bin/sh\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "passwd"), []byte(passwd), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "crontab"), []byte("# crontab\n"), 0644))
	return root
}

func TestScanCommand(t *testing.T) {
	root := setupImage(t)

	out := &bytes.Buffer{}
	scanCommand := Scan()
	scanCommand.SetOut(out)
	scanCommand.SetErr(io.Discard)
	scanCommand.SetArgs([]string{root})

	require.NoError(t, scanCommand.Execute())

	report := gjson.Parse(out.String())
	assert.Equal(t, root, report.Get("root").String())
	assert.Equal(t, "suspicious-uid0", report.Get("account_findings.0.kind").String())
	assert.Equal(t, "toor", report.Get("account_findings.0.usernames.0").String())
	assert.True(t, report.Get("scanned_files").Int() >= 2)
}

func TestScanCommandInvalidSince(t *testing.T) {
	root := setupImage(t)

	scanCommand := Scan()
	scanCommand.SetOut(io.Discard)
	scanCommand.SetErr(io.Discard)
	scanCommand.SetArgs([]string{"--since", "31.01.2020", root})

	err := scanCommand.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since")
}

func TestScanCommandMissingAccountDatabase(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "etc", "crontab"), []byte("# crontab\n"), 0644))

	out := &bytes.Buffer{}
	scanCommand := Scan()
	scanCommand.SetOut(out)
	scanCommand.SetErr(io.Discard)
	scanCommand.SetArgs([]string{root})

	// the report is still printed, but the missing database is an error
	err := scanCommand.Execute()
	require.Error(t, err)
	assert.True(t, gjson.Parse(out.String()).Get("timestamp_findings").Exists())
}
