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

// Package server implements the TCP front end: an accept loop that hands
// each connection to the worker pool, and a per-connection request loop
// that speaks the wire protocol against a single shared engine.Engine.
package server

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/launix-de/kvs/internal/engine"
	"github.com/launix-de/kvs/internal/logging"
	"github.com/launix-de/kvs/internal/pool"
	"github.com/launix-de/kvs/internal/wire"
)

// Server accepts connections on a net.Listener and serves each one as a
// pool job, so a slow or stuck client can never starve the others beyond
// the pool's fixed concurrency.
type Server struct {
	ln     net.Listener
	engine engine.Engine
	pool   *pool.Pool
	log    *logging.Logger
}

// New wraps an already-open listener. Engine is expected to be shared by
// every connection; engine.Engine implementations are responsible for their
// own internal synchronization (see kvs.KVS).
func New(ln net.Listener, eng engine.Engine, p *pool.Pool, log *logging.Logger) *Server {
	return &Server{ln: ln, engine: eng, pool: p, log: log}
}

// Serve runs the accept loop until the listener is closed, at which point
// it returns nil (a closed listener is the normal shutdown signal, not an
// error). Per §4.5/§5, the server never shuts down the listener on its own
// account: any other accept error is logged and the loop continues.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warnf("accept error: %v", err)
			continue
		}
		s.pool.Spawn(func() {
			s.serveConn(conn)
		})
	}
}

// serveConn runs the request/response loop for one connection. Each
// connection gets a correlation id purely for log readability; it never
// affects engine semantics.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	id := uuid.NewString()
	s.log.Infof("conn %s: accepted from %s", id, conn.RemoteAddr())
	defer s.log.Infof("conn %s: closed", id)

	r := wire.NewReader(conn)
	w := wire.NewWriter(conn)

	for {
		var req wire.Request
		if err := r.ReadRequest(&req); err != nil {
			if err != io.EOF {
				s.log.Warnf("conn %s: read error: %v", id, err)
			}
			return
		}

		resp := s.handle(req)
		if err := w.WriteResponse(resp); err != nil {
			s.log.Warnf("conn %s: write error: %v", id, err)
			return
		}
	}
}

// handle executes one request against the engine. Engine errors become
// wire.Fail responses, never a dropped connection: only transport-level I/O
// failures close the connection (see serveConn).
func (s *Server) handle(req wire.Request) wire.Response {
	switch req.Op {
	case wire.OpSet:
		if err := s.engine.Set(req.Key, req.Value); err != nil {
			return wire.Fail(err)
		}
		return wire.OkEmpty()

	case wire.OpGet:
		value, ok, err := s.engine.Get(req.Key)
		if err != nil {
			return wire.Fail(err)
		}
		if !ok {
			return wire.OkMissing()
		}
		return wire.OkValue(value)

	case wire.OpRemove:
		if err := s.engine.Remove(req.Key); err != nil {
			return wire.Fail(err)
		}
		return wire.OkEmpty()

	default:
		return wire.Fail(errors.New("unknown operation: " + req.Op))
	}
}
