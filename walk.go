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
	"path"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// WalkArtifacts enumerates all regular files below root/rel in lexical
// order, together with their modification time at second resolution.
// Symlinks are never followed. A missing path yields an empty result, not
// an error; unreadable entries are skipped and returned as a soft error
// count. The walk stops early when ctx is cancelled, returning ctx.Err().
func WalkArtifacts(ctx context.Context, fs afero.Fs, root, rel string) ([]FileArtifact, int, error) {
	base := path.Join(root, rel)

	var bases []string
	if strings.ContainsAny(rel, "*?[") {
		matches, err := afero.Glob(fs, base)
		if err != nil {
			return nil, 0, err
		}
		sort.Strings(matches)
		bases = matches
	} else {
		exists, err := afero.Exists(fs, base)
		if err != nil {
			log.Printf("could not stat %s: %v", base, err)
			return nil, 1, nil
		}
		if !exists {
			return nil, 0, nil
		}
		bases = []string{base}
	}

	var artifacts []FileArtifact
	softErrors := 0
	for _, b := range bases {
		err := afero.Walk(fs, b, func(name string, info os.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				softErrors++
				log.Printf("skipping %s: %v", name, err)
				return nil
			}
			if info == nil || !info.Mode().IsRegular() {
				return nil
			}
			artifacts = append(artifacts, FileArtifact{
				Path:       name,
				ModifiedAt: info.ModTime().Truncate(time.Second),
			})
			return nil
		})
		if err != nil {
			return artifacts, softErrors, err
		}
	}
	return artifacts, softErrors, nil
}
