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

package server

import (
	"bytes"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/launix-de/kvs/internal/client"
	"github.com/launix-de/kvs/internal/engine/kvs"
	"github.com/launix-de/kvs/internal/logging"
	"github.com/launix-de/kvs/internal/pool"
)

func noopLog() *logging.Logger {
	return logging.New(logging.LevelError, &bytes.Buffer{})
}

func startServer(t *testing.T) string {
	t.Helper()
	log := noopLog()

	eng, err := kvs.Open(t.TempDir(), 0, log)
	if err != nil {
		t.Fatalf("kvs.Open: %v", err)
	}
	t.Cleanup(func() { eng.Close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	p := pool.New(2, log)
	t.Cleanup(p.Shutdown)

	srv := New(ln, eng, p, log)
	go srv.Serve()

	return ln.Addr().String()
}

// TestSetThenGetSameConnection mirrors §8 scenario 5: a client sends
// Set{"a","1"} then Get{"a"} on one connection and observes the responses
// in order.
func TestSetThenGetSameConnection(t *testing.T) {
	addr := startServer(t)

	c, err := client.Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := c.Get("a")
	if err != nil || !ok || value != "1" {
		t.Fatalf("Get = %q, %v, %v", value, ok, err)
	}
}

func TestGetMissingKeyOverWire(t *testing.T) {
	addr := startServer(t)
	c, err := client.Dial(addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, ok, err := c.Get("nope")
	if err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v", ok, err)
	}
}

func TestRemoveMissingKeyOverWireIsError(t *testing.T) {
	addr := startServer(t)
	c, err := client.Dial(addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Remove("nope"); err == nil {
		t.Fatal("Remove(missing) = nil error, want failure")
	}
}

// TestMultipleRequestsOneConnection checks a connection can carry a
// sequence of request/response pairs (§4.3).
func TestMultipleRequestsOneConnection(t *testing.T) {
	addr := startServer(t)
	c, err := client.Dial(addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	for i := 0; i < 20; i++ {
		key := "k"
		value := string(rune('a' + i%26))
		if err := c.Set(key, value); err != nil {
			t.Fatalf("Set #%d: %v", i, err)
		}
		got, ok, err := c.Get(key)
		if err != nil || !ok || got != value {
			t.Fatalf("Get #%d = %q, %v, %v, want %q", i, got, ok, err, value)
		}
	}
}

// TestConcurrentClients checks many connections can be served concurrently
// through the pool without cross-talk between sessions.
func TestConcurrentClients(t *testing.T) {
	addr := startServer(t)

	const clients = 8
	done := make(chan error, clients)
	for i := 0; i < clients; i++ {
		i := i
		go func() {
			c, err := client.Dial(addr)
			if err != nil {
				done <- err
				return
			}
			defer c.Close()

			key := string(rune('A' + i))
			if err := c.Set(key, key); err != nil {
				done <- err
				return
			}
			value, ok, err := c.Get(key)
			if err != nil {
				done <- err
				return
			}
			if !ok || value != key {
				done <- fmt.Errorf("client %d: Get = %q, %v", i, value, ok)
				return
			}
			done <- nil
		}()
	}

	timeout := time.After(5 * time.Second)
	for i := 0; i < clients; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Fatal(err)
			}
		case <-timeout:
			t.Fatal("timed out waiting for concurrent clients")
		}
	}
}
