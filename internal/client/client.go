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

// Package client is the kvs-client library: a thin wrapper around one TCP
// connection speaking the wire protocol, used both for one-shot
// set/get/rm invocations and for the interactive repl (see repl.go).
package client

import (
	"net"

	"github.com/launix-de/kvs/internal/wire"
)

// Client holds one open connection. It is not safe for concurrent use by
// multiple goroutines; each command-line invocation or repl session owns
// its own Client.
type Client struct {
	conn net.Conn
	r    *wire.Reader
	w    *wire.Writer
}

// Dial opens a connection to addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		r:    wire.NewReader(conn),
		w:    wire.NewWriter(conn),
	}, nil
}

func (c *Client) roundTrip(req wire.Request) (wire.Response, error) {
	if err := c.w.WriteRequest(req); err != nil {
		return wire.Response{}, err
	}
	var resp wire.Response
	if err := c.r.ReadResponse(&resp); err != nil {
		return wire.Response{}, err
	}
	return resp, nil
}

// Set stores value under key.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(wire.Request{Op: wire.OpSet, Key: key, Value: value})
	if err != nil {
		return err
	}
	return resp.Error()
}

// Get fetches the value stored under key. found is false when the key does
// not exist; that is not an error.
func (c *Client) Get(key string) (value string, found bool, err error) {
	resp, err := c.roundTrip(wire.Request{Op: wire.OpGet, Key: key})
	if err != nil {
		return "", false, err
	}
	if err := resp.Error(); err != nil {
		return "", false, err
	}
	if resp.Value == nil {
		return "", false, nil
	}
	return *resp.Value, true, nil
}

// Remove deletes key. If the key does not exist it returns a plain error
// carrying the server's message (engine.ErrKeyNotFound's text); the error
// does not match engine.ErrKeyNotFound under errors.Is.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(wire.Request{Op: wire.OpRemove, Key: key})
	if err != nil {
		return err
	}
	return resp.Error()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
