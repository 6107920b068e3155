// Copyright 2025 Wayfarer AI
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

package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Config from disk whenever its backing file changes,
// publishing each successfully parsed Config on Updates. Only a
// successfully Validate()-d Config is ever published; a transient bad
// write to the file is logged and otherwise ignored.
type Watcher struct {
	path    string
	log     *slog.Logger
	updates chan *Config
}

// NewWatcher starts watching path's containing directory (watching the
// file itself is unreliable across editors that replace-on-save) and
// returns a Watcher whose Updates channel receives a freshly parsed
// Config after each debounced change. The watch stops, and Updates is
// closed, once ctx is done.
func NewWatcher(ctx context.Context, path string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	dir := filepath.Dir(absPath)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config directory %s: %w", dir, err)
	}

	w := &Watcher{path: absPath, log: log, updates: make(chan *Config, 1)}
	go w.loop(ctx, fsw, filepath.Base(absPath))
	return w, nil
}

// Updates yields a new Config each time the watched file changes and
// reparses cleanly.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, filename string) {
	defer close(w.updates)
	defer fsw.Close()

	const debounce = 100 * time.Millisecond
	var timer *time.Timer

	reload := func() {
		cfg, err := Load(w.path)
		if err != nil {
			w.log.WarnContext(ctx, "config reload failed, keeping previous config", "path", w.path, "error", err)
			return
		}
		select {
		case w.updates <- cfg:
		default:
			// a reload is already pending; drop the stale one
			select {
			case <-w.updates:
			default:
			}
			select {
			case w.updates <- cfg:
			default:
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, reload)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.WarnContext(ctx, "config watcher error", "error", err)
		}
	}
}
