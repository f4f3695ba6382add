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

// Package config holds process-wide settings, in the style of the teacher
// repository's storage.Settings: one struct filled in once at startup and
// read everywhere else.
package config

import (
	"github.com/dc0d/onexit"
	units "github.com/docker/go-units"
)

// DefaultCompactionThreshold matches the reference value from the spec:
// compaction runs once the active log exceeds roughly 1 MiB.
const DefaultCompactionThreshold = 1 << 20

// Settings is the process-wide configuration, populated by cmd/kvs-server's
// flag parsing.
type Settings struct {
	Addr                 string
	Engine               string
	Dir                  string
	CompactionThreshold  int64
	S3Bucket             string
	S3Endpoint           string
	S3Region             string
	MySQLDSN             string
}

// ParseSize accepts either a plain byte count or a human-readable size such
// as "1MiB" / "512KB", per docker/go-units' RAM-size grammar.
func ParseSize(s string) (int64, error) {
	return units.RAMInBytes(s)
}

// RegisterCloser arranges for close to run if the process exits through
// Go's normal exit chain (onexit.Exit / a return from main wrapped by
// onexit.Handle), mirroring storage.InitSettings' onexit.Register call.
// This is a durability aid, not a signal handler: trapping SIGINT/SIGTERM is
// explicitly out of this repository's scope.
func RegisterCloser(close func()) {
	onexit.Register(close)
}
