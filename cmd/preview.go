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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const previewSize = 256

// previewArtifact returns a one line classification and content preview
// for verbose output. This is presentation only and never part of the
// finding model.
func previewArtifact(fs afero.Fs, name string) string {
	f, err := fs.Open(name)
	if err != nil {
		return "[unreadable]"
	}
	defer f.Close() // nolint:errcheck

	buf := make([]byte, previewSize)
	n, _ := f.Read(buf)
	buf = buf[:n]

	return fmt.Sprintf("[%s] %s", classifyContent(buf), firstLine(buf))
}

func classifyContent(data []byte) string {
	switch {
	case len(data) == 0:
		return "empty"
	case bytes.HasPrefix(data, []byte("#!")):
		return "script"
	case bytes.ContainsRune(data, 0) || !utf8.Valid(data):
		return "binary"
	default:
		return "text"
	}
}

func firstLine(data []byte) string {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if !utf8.ValidString(line) {
		return ""
	}
	return strings.TrimSpace(line)
}
