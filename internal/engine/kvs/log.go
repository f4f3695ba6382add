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
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// writeRecord marshals rec and writes it at the given byte offset using
// WriteAt (not Write), so a concurrent ReadAt-based Get never races with the
// file's shared cursor. It fsyncs before returning, satisfying I3.
func writeRecord(f *os.File, offset int64, rec record) (pointer, error) {
	buf, err := json.Marshal(rec)
	if err != nil {
		return pointer{}, err
	}
	if _, err := f.WriteAt(buf, offset); err != nil {
		return pointer{}, err
	}
	if err := f.Sync(); err != nil {
		return pointer{}, err
	}
	return pointer{Offset: offset, Length: int64(len(buf))}, nil
}

// readRecord parses exactly the bytes ptr identifies. Because the codec is
// self-delimiting and the bytes were produced by writeRecord, parsing must
// succeed; any failure here is an integrity error, not a normal outcome.
func readRecord(f *os.File, ptr pointer) (record, error) {
	buf := make([]byte, ptr.Length)
	if _, err := f.ReadAt(buf, ptr.Offset); err != nil {
		return record{}, fmt.Errorf("kvs: integrity error reading record at %d: %w", ptr.Offset, err)
	}
	var rec record
	if err := json.Unmarshal(buf, &rec); err != nil {
		return record{}, fmt.Errorf("kvs: integrity error decoding record at %d: %w", ptr.Offset, err)
	}
	return rec, nil
}

// logOp is one parsed entry produced by replay, in file order.
type logOp struct {
	rec record
	ptr pointer
}

// replayLog scans f from offset 0, decoding one record at a time with
// json.Decoder.InputOffset to recover each record's exact byte range (the
// same range writeRecord would have reported at write time).
//
// A torn tail (the process crashed mid-append) surfaces as io.EOF or
// io.ErrUnexpectedEOF from Decode once the decoder runs out of input before
// finishing a value; the file is truncated back to the end of the last
// complete record and scanning stops, keeping everything decoded so far. Any other decode error means the bytes
// that remain are not a well-formed JSON value even though more input is
// available, which can only be interior corruption, and is fatal.
func replayLog(f *os.File) ([]logOp, int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	dec := json.NewDecoder(f)
	var ops []logOp
	var offset int64
	for {
		start := dec.InputOffset()
		var rec record
		err := dec.Decode(&rec)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				if err := f.Truncate(start); err != nil {
					return nil, 0, err
				}
				offset = start
				break
			}
			return nil, 0, fmt.Errorf("kvs: corrupt log at offset %d: %w", start, err)
		}
		end := dec.InputOffset()
		ops = append(ops, logOp{rec: rec, ptr: pointer{Offset: start, Length: end - start}})
		offset = end
	}
	return ops, offset, nil
}
