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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
)

// compactLocked rewrites the log to contain only live records. The caller
// must hold k.mu for the duration (compaction is mutually exclusive with
// concurrent mutations, the simplest correct realization of §4.2).
func (k *KVS) compactLocked() error {
	tmpPath := filepath.Join(k.dir, tmpFile)
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	entries := k.index.GetAll()
	newPointers := make([]*indexEntry, 0, len(entries))
	var offset int64
	for _, e := range entries {
		old, err := readRecord(k.file, e.ptr)
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
		ptr, err := writeRecord(tmp, offset, record{Op: opSet, Key: old.Key, Value: old.Value})
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
		newPointers = append(newPointers, &indexEntry{key: e.key, ptr: ptr})
		offset += ptr.Length
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	oldFile := k.file
	oldSize := k.writeOffset

	if err := os.Rename(tmpPath, k.logPath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(k.logPath, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}

	for _, e := range newPointers {
		k.index.Set(e)
	}
	k.file = newFile
	k.writeOffset = offset

	k.archiveAndClose(oldFile, oldSize)
	return nil
}

// archiveAndClose best-effort compresses the superseded log into archive/
// and closes the old handle. Archival failures are logged, never fatal:
// they cannot affect any testable property of the store (see SPEC_FULL.md
// §3's "Archived log segment").
func (k *KVS) archiveAndClose(oldFile *os.File, size int64) {
	defer oldFile.Close()
	if size == 0 {
		return
	}
	archiveDir := filepath.Join(k.dir, "archive")
	if err := os.MkdirAll(archiveDir, 0o750); err != nil {
		k.log.Warnf("kvs: archive disabled: %v", err)
		return
	}
	name := filepath.Join(archiveDir, fmt.Sprintf("%d.log.lz4", time.Now().UnixNano()))
	out, err := os.Create(name)
	if err != nil {
		k.log.Warnf("kvs: archive disabled: %v", err)
		return
	}
	defer out.Close()

	zw := lz4.NewWriter(out)
	if _, err := io.Copy(zw, io.NewSectionReader(oldFile, 0, size)); err != nil {
		k.log.Warnf("kvs: archive of superseded log failed: %v", err)
		return
	}
	if err := zw.Close(); err != nil {
		k.log.Warnf("kvs: archive of superseded log failed: %v", err)
	}
}
