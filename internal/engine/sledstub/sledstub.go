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

// Package sledstub declares the "sled" backend name without implementing
// it. sled is a third-party embedded engine with no pure-Go binding in this
// repository's dependency set; wiring the real thing would mean either CGO
// or a pure-Go reimplementation, both out of scope. The stub exists so that
// --engine sled still participates in the engine marker-file check (§6):
// a store created with one backend name and reopened under another must
// fail regardless of whether the second name is actually implemented.
package sledstub

import (
	"github.com/launix-de/kvs/internal/engine"
)

const name = "sled"

// Sled is a declared-only backend. Every operation reports
// engine.ErrBackendUnavailable.
type Sled struct{}

// Open checks the marker file (so a mismatched reopen still fails loudly)
// and then returns a Sled that refuses every subsequent call.
func Open(dir string) (*Sled, error) {
	if err := engine.CheckMarker(dir, name); err != nil {
		return nil, err
	}
	return &Sled{}, nil
}

func (*Sled) Set(key, value string) error {
	return engine.ErrBackendUnavailable
}

func (*Sled) Get(key string) (string, bool, error) {
	return "", false, engine.ErrBackendUnavailable
}

func (*Sled) Remove(key string) error {
	return engine.ErrBackendUnavailable
}

func (*Sled) Close() error {
	return nil
}
