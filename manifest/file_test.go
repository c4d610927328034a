// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manifestYAML(paths ...string) []byte {
	data := "routes:\n"
	for _, p := range paths {
		data += "  - methods: GET\n    path: \"" + p + "\"\n    handler: health\n"
	}
	return []byte(data)
}

// replaceFile writes data next to path and renames it into place, the way
// editors and config management tools do.
func replaceFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func writeManifest(t *testing.T, path string, paths ...string) {
	t.Helper()
	require.NoError(t, replaceFile(path, manifestYAML(paths...)))
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	f, err := NewFile("conf/routes.yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("conf/routes.yml"), f.Path())

	_, err = NewFile("routes.conf")
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = NewFile("routes.conf", WithFormat(FormatTOML))
	require.NoError(t, err)

	_, err = NewFile("routes.yaml", WithFormat("ini"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFile_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeManifest(t, path, "/a", "/b")

	f, err := NewFile(path)
	require.NoError(t, err)

	doc, err := f.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Routes, 2)
	assert.Equal(t, "/b", doc.Routes[1].Path)
}

func TestFile_LoadMissing(t *testing.T) {
	t.Parallel()

	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, err = f.Load(context.Background())
	require.ErrorIs(t, err, fs.ErrNotExist)
	var merr *Error
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "load", merr.Operation)
}

func TestFile_LoadCanceled(t *testing.T) {
	t.Parallel()

	f, err := NewFile("routes.json")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFile_WatchReloadsSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	writeManifest(t, path, "/a")

	f, err := NewFile(path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := NewSource(ctx, f, testHandlers())
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	// The watcher may not be registered yet, so keep rewriting until the
	// change is picked up.
	assert.Eventually(t, func() bool {
		_ = replaceFile(path, manifestYAML("/a", "/b"))
		return src.Generation() > 1
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, []string{"/a", "/b"}, patterns(t, src))

	cancel()
	require.NoError(t, <-done)
}

func TestDebouncer(t *testing.T) {
	t.Parallel()

	calls := make(chan struct{}, 10)
	d := newDebouncer(20*time.Millisecond, func() { calls <- struct{}{} })

	for range 5 {
		d.trigger()
	}
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("debounced callback did not run")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, calls, "bursts collapse into one call")

	d.stop()
	d.trigger()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, calls, "stopped debouncer does not fire")
}
