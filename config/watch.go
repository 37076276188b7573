// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long the file must stay quiet after an event before
// it is reloaded. Saving a file produces several events (truncate, write,
// rename); only the final content is loaded.
const settleDelay = 100 * time.Millisecond

// Watch reloads the configuration file at path whenever it is written or
// replaced and passes every successfully loaded configuration to fn.
// Reload failures go to onErr (which may be nil) and keep watching.
// Watch blocks until ctx is done.
//
// An empty file, or content identical to the last delivered load, is not
// passed to fn.
//
// The parent directory is watched rather than the file itself so that
// editors that save by renaming a temporary file are picked up.
func Watch(ctx context.Context, path string, fn func(Config), onErr func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer func() { _ = w.Close() }()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	report := func(err error) {
		if onErr != nil {
			onErr(err)
		}
	}

	r := newReloader(path)

	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			settle.Reset(settleDelay)
		case <-settle.C:
			cfg, changed, err := r.reload()
			if err != nil {
				report(err)
				continue
			}
			if changed {
				fn(cfg)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("config: watch: %w", err))
		}
	}
}

// reloader loads a configuration file and remembers the content of the
// last good load.
type reloader struct {
	path string
	last []byte
}

// newReloader primes the reloader with the current file content, which
// the caller is assumed to have loaded already.
func newReloader(path string) *reloader {
	data, _ := os.ReadFile(path)
	return &reloader{path: path, last: data}
}

// reload reads the file and reports whether it holds a new configuration.
// A file that is empty is mid-write and is skipped.
func (r *reloader) reload() (Config, bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return Config{}, false, fmt.Errorf("config: read %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, r.last) {
		return Config{}, false, nil
	}

	cfg, err := parse(r.path, data)
	if err != nil {
		return Config{}, false, err
	}
	r.last = data
	return cfg, true, nil
}
