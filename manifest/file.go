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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// File loads a manifest from the file system.
type File struct {
	path     string
	format   Format
	debounce time.Duration
	logger   *slog.Logger
}

// FileOption configures a File loader.
type FileOption func(*File)

// WithFormat overrides the format inferred from the file extension.
func WithFormat(format Format) FileOption {
	return func(f *File) {
		f.format = format
	}
}

// WithDebounce sets the quiet period used by Watch.
//
// Default: 100ms
func WithDebounce(d time.Duration) FileOption {
	return func(f *File) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithFileLogger sets the logger used for watch errors.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFile returns a loader for path.
//
// Errors:
//   - ErrUnknownFormat if the format cannot be inferred and WithFormat is not given
func NewFile(path string, opts ...FileOption) (*File, error) {
	f := &File{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.format == "" {
		format, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		f.format = format
	}
	if _, err := DecoderFor(f.format); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the manifest path.
func (f *File) Path() string { return f.path }

// Load reads and parses the manifest.
func (f *File) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, NewError("file:"+f.path, "load", err)
	}
	return Parse(data, f.format)
}

// Watch calls onChange after the manifest file is written, created or
// replaced, once the file has been quiet for the debounce period. The
// parent directory is watched so that atomic renames are observed.
// Watch blocks until ctx is done.
func (f *File) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(f.path)
	if err = w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	d := newDebouncer(f.debounce, onChange)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				f.logger.Debug("manifest file changed", "path", f.path, "op", event.Op.String())
				d.trigger()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("manifest watch error", "path", f.path, "error", err)
		}
	}
}
