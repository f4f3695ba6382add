/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package kvs

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/launix-de/kvs/internal/logging"
)

// watcher is a diagnostic-only directory monitor: it never feeds back into
// engine state, so its absence or failure cannot affect correctness. It
// exists purely to log a warning if something outside this process touches
// the store directory while the engine has it open.
type watcher struct {
	w *fsnotify.Watcher
}

// startWatcher watches dir and logs removals/renames of the active log or
// engine marker file. Failing to start the watcher (e.g. inotify instance
// limits) is itself only logged; it never fails Open.
func startWatcher(dir string, log *logging.Logger) *watcher {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnf("kvs: directory watch disabled: %v", err)
		return nil
	}
	if err := w.Add(dir); err != nil {
		log.Warnf("kvs: directory watch disabled: %v", err)
		w.Close()
		return nil
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name == "" {
					continue
				}
				if base := filepath.Base(ev.Name); base != logFile && base != "engine" {
					continue
				}
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					log.Warnf("kvs: store directory changed externally: %s (%s)", ev.Name, ev.Op)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("kvs: directory watch error: %v", err)
			}
		}
	}()
	return &watcher{w: w}
}

func (w *watcher) Close() error {
	if w == nil {
		return nil
	}
	return w.w.Close()
}
