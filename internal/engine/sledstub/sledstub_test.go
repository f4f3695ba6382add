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

package sledstub

import (
	"errors"
	"testing"

	"github.com/launix-de/kvs/internal/engine"
)

func TestEveryOperationReportsUnavailable(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := s.Set("k", "v"); !errors.Is(err, engine.ErrBackendUnavailable) {
		t.Fatalf("Set = %v, want ErrBackendUnavailable", err)
	}
	if _, _, err := s.Get("k"); !errors.Is(err, engine.ErrBackendUnavailable) {
		t.Fatalf("Get = %v, want ErrBackendUnavailable", err)
	}
	if err := s.Remove("k"); !errors.Is(err, engine.ErrBackendUnavailable) {
		t.Fatalf("Remove = %v, want ErrBackendUnavailable", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close = %v, want nil", err)
	}
}

func TestMarkerMismatchStillDetected(t *testing.T) {
	dir := t.TempDir()
	if err := engine.CheckMarker(dir, "kvs"); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); !errors.Is(err, engine.ErrBackendMismatch) {
		t.Fatalf("Open with mismatched marker = %v, want ErrBackendMismatch", err)
	}
}
