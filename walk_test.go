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
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkPaths(artifacts []FileArtifact) []string {
	var paths []string
	for _, a := range artifacts {
		paths = append(paths, a.Path)
	}
	return paths
}

func TestWalkArtifacts(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"/mnt/root/etc/cron.d/backup",
		"/mnt/root/etc/cron.d/apt",
		"/mnt/root/etc/cron.d/jobs/nested",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("* * * * * root /bin/true\n"), 0644))
	}

	artifacts, softErrors, err := WalkArtifacts(context.Background(), fs, "/mnt/root", "etc/cron.d")
	require.NoError(t, err)
	assert.Zero(t, softErrors)
	assert.Equal(t, []string{
		"/mnt/root/etc/cron.d/apt",
		"/mnt/root/etc/cron.d/backup",
		"/mnt/root/etc/cron.d/jobs/nested",
	}, walkPaths(artifacts))
}

func TestWalkArtifactsSingleFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2020, 1, 31, 13, 37, 42, 999, time.UTC)
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/crontab", []byte("# crontab\n"), 0644))
	require.NoError(t, fs.Chtimes("/mnt/root/etc/crontab", mtime, mtime))

	artifacts, softErrors, err := WalkArtifacts(context.Background(), fs, "/mnt/root", "etc/crontab")
	require.NoError(t, err)
	assert.Zero(t, softErrors)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "/mnt/root/etc/crontab", artifacts[0].Path)
	// second resolution
	assert.Equal(t, mtime.Truncate(time.Second), artifacts[0].ModifiedAt)
}

func TestWalkArtifactsMissingPath(t *testing.T) {
	fs := afero.NewMemMapFs()

	artifacts, softErrors, err := WalkArtifacts(context.Background(), fs, "/mnt/root", "var/spool/cron")
	require.NoError(t, err)
	assert.Zero(t, softErrors)
	assert.Empty(t, artifacts)
}

func TestWalkArtifactsGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/cron.d/apt", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/cron.daily/logrotate", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/crontab", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/passwd", []byte("x"), 0644))

	artifacts, softErrors, err := WalkArtifacts(context.Background(), fs, "/mnt/root", "etc/cron*")
	require.NoError(t, err)
	assert.Zero(t, softErrors)
	assert.Equal(t, []string{
		"/mnt/root/etc/cron.d/apt",
		"/mnt/root/etc/cron.daily/logrotate",
		"/mnt/root/etc/crontab",
	}, walkPaths(artifacts))
}

func TestWalkArtifactsBadPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/crontab", []byte("x"), 0644))

	_, _, err := WalkArtifacts(context.Background(), fs, "/mnt/root", "etc/[")
	assert.ErrorIs(t, err, filepath.ErrBadPattern)
}

func TestWalkArtifactsCancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/mnt/root/etc/init.d/ssh", []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := WalkArtifacts(ctx, fs, "/mnt/root", "etc/init.d")
	assert.ErrorIs(t, err, context.Canceled)
}
