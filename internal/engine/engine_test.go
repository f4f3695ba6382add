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

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckMarkerWritesOnFreshDir(t *testing.T) {
	dir := t.TempDir()
	if err := CheckMarker(dir, "kvs"); err != nil {
		t.Fatalf("CheckMarker: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, markerFile))
	if err != nil {
		t.Fatal(err)
	}
	if trimNewline(got) != "kvs" {
		t.Fatalf("marker file = %q, want %q", got, "kvs")
	}
}

func TestCheckMarkerAcceptsSameName(t *testing.T) {
	dir := t.TempDir()
	if err := CheckMarker(dir, "kvs"); err != nil {
		t.Fatal(err)
	}
	if err := CheckMarker(dir, "kvs"); err != nil {
		t.Fatalf("second CheckMarker with same name: %v", err)
	}
}

func TestCheckMarkerRejectsMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := CheckMarker(dir, "kvs"); err != nil {
		t.Fatal(err)
	}
	if err := CheckMarker(dir, "sled"); !errors.Is(err, ErrBackendMismatch) {
		t.Fatalf("CheckMarker with different name = %v, want ErrBackendMismatch", err)
	}
}

func TestCheckMarkerCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	if err := CheckMarker(dir, "kvs"); err != nil {
		t.Fatalf("CheckMarker on missing dir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dir should have been created: %v", err)
	}
}
