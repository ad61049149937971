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
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// accountDatabase is the account database location relative to the image root.
const accountDatabase = "etc/passwd"

const accountFieldCount = 7

// ReadAccounts parses the account database below the given image root into
// records, preserving file order. A missing database file is fatal for the
// account check and returned as an error.
func ReadAccounts(fs afero.Fs, root string) ([]AccountRecord, error) {
	name := path.Join(root, accountDatabase)
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read account database %s", name)
	}
	return ParseAccounts(string(data)), nil
}

// ParseAccounts parses colon delimited account database content. Lines that
// do not split into exactly seven fields or carry non numeric ids are
// skipped, not fatal.
func ParseAccounts(data string) []AccountRecord {
	var records []AccountRecord
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != accountFieldCount {
			continue
		}

		uid, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		gid, err := strconv.Atoi(parts[3])
		if err != nil {
			continue
		}

		records = append(records, AccountRecord{
			Username: parts[0],
			UID:      uid,
			GID:      gid,
			Comment:  parts[4],
			Home:     parts[5],
			Shell:    parts[6],
		})
	}
	return records
}
