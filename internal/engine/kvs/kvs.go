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

// Package kvs is the default storage engine: an append-only command log on
// disk backed by an in-memory index of (offset, length) pointers, in the
// spirit of the teacher repository's storage.Persistence layer but trimmed
// to a single flat keyspace instead of a columnar table store.
package kvs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/launix-de/NonLockingReadMap"

	"github.com/launix-de/kvs/internal/engine"
	"github.com/launix-de/kvs/internal/logging"
)

const (
	logFile = "current.db"
	tmpFile = "tmp.db"
	name    = "kvs"
)

// KVS is the default engine.Engine implementation.
type KVS struct {
	dir     string
	logPath string

	threshold int64
	log       *logging.Logger

	mu          sync.RWMutex
	file        *os.File
	writeOffset int64
	index       NonLockingReadMap.NonLockingReadMap[indexEntry, string]

	watch *watcher
}

// Open recovers or creates a store rooted at dir. A stray tmp.db left behind
// by a compaction that crashed before its rename is discarded: current.db is
// always the source of truth until a rename has actually happened (§6).
func Open(dir string, threshold int64, log *logging.Logger) (*KVS, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	if err := engine.CheckMarker(dir, name); err != nil {
		return nil, err
	}

	tmpPath := filepath.Join(dir, tmpFile)
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	logPath := filepath.Join(dir, logFile)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	ops, offset, err := replayLog(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	k := &KVS{
		dir:         dir,
		logPath:     logPath,
		threshold:   threshold,
		log:         log,
		file:        f,
		writeOffset: offset,
		index:       NonLockingReadMap.New[indexEntry, string](),
	}

	for _, op := range ops {
		switch op.rec.Op {
		case opSet:
			k.index.Set(&indexEntry{key: op.rec.Key, ptr: op.ptr})
		case opRemove:
			k.index.Remove(op.rec.Key)
		}
	}

	k.watch = startWatcher(dir, log)
	return k, nil
}

// Set implements engine.Engine.
func (k *KVS) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	ptr, err := writeRecord(k.file, k.writeOffset, record{Op: opSet, Key: key, Value: value})
	if err != nil {
		return err
	}
	k.writeOffset += ptr.Length
	k.index.Set(&indexEntry{key: key, ptr: ptr})

	if k.threshold > 0 && k.writeOffset >= k.threshold {
		if err := k.compactLocked(); err != nil {
			k.log.Warnf("kvs: compaction failed, continuing uncompacted: %v", err)
		}
	}
	return nil
}

// Get implements engine.Engine. It takes the read lock only, so concurrent
// Gets never block one another; they block only behind an in-progress Set,
// Remove or compaction, matching §5's single-exclusive-lock reference
// design while still allowing true reader concurrency.
func (k *KVS) Get(key string) (string, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	e := k.index.Get(key)
	if e == nil {
		return "", false, nil
	}
	rec, err := readRecord(k.file, e.ptr)
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

// Remove implements engine.Engine.
func (k *KVS) Remove(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.index.Get(key) == nil {
		return engine.ErrKeyNotFound
	}

	ptr, err := writeRecord(k.file, k.writeOffset, record{Op: opRemove, Key: key})
	if err != nil {
		return err
	}
	k.writeOffset += ptr.Length
	k.index.Remove(key)

	if k.threshold > 0 && k.writeOffset >= k.threshold {
		if err := k.compactLocked(); err != nil {
			k.log.Warnf("kvs: compaction failed, continuing uncompacted: %v", err)
		}
	}
	return nil
}

// Close implements engine.Engine.
func (k *KVS) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.watch != nil {
		k.watch.Close()
	}
	return k.file.Close()
}
