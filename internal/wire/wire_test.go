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

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestRequestRoundTrip(t *testing.T) {
	cases := []Request{
		{Op: OpGet, Key: "k"},
		{Op: OpSet, Key: "k", Value: "v"},
		{Op: OpSet, Key: "k", Value: ""},
		{Op: OpRemove, Key: "k"},
	}
	for _, req := range cases {
		var buf bytes.Buffer
		if err := NewWriter(&buf).WriteRequest(req); err != nil {
			t.Fatalf("WriteRequest(%+v): %v", req, err)
		}
		var got Request
		if err := NewReader(&buf).ReadRequest(&got); err != nil {
			t.Fatalf("ReadRequest: %v", err)
		}
		if got != req {
			t.Fatalf("round trip = %+v, want %+v", got, req)
		}
	}
}

func TestResponseRoundTrip(t *testing.T) {
	v := "v"
	cases := []Response{
		OkValue("v"),
		OkMissing(),
		OkEmpty(),
		Fail(errors.New("boom")),
	}
	for _, resp := range cases {
		var buf bytes.Buffer
		if err := NewWriter(&buf).WriteResponse(resp); err != nil {
			t.Fatalf("WriteResponse(%+v): %v", resp, err)
		}
		var got Response
		if err := NewReader(&buf).ReadResponse(&got); err != nil {
			t.Fatalf("ReadResponse: %v", err)
		}
		if got.Ok != resp.Ok || got.Err != resp.Err {
			t.Fatalf("round trip = %+v, want %+v", got, resp)
		}
		if (got.Value == nil) != (resp.Value == nil) {
			t.Fatalf("Value presence mismatch: got %+v want %+v", got, resp)
		}
		if got.Value != nil && *got.Value != v && resp.Value != nil && *got.Value != *resp.Value {
			t.Fatalf("Value mismatch: got %q want %q", *got.Value, *resp.Value)
		}
	}
}

// TestStreamOfMultipleValues checks that consecutive requests on one stream
// decode one at a time without any external length prefix (§4.3).
func TestStreamOfMultipleValues(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	want := []Request{
		{Op: OpSet, Key: "a", Value: "1"},
		{Op: OpGet, Key: "a"},
		{Op: OpRemove, Key: "a"},
	}
	for _, req := range want {
		if err := w.WriteRequest(req); err != nil {
			t.Fatal(err)
		}
	}

	r := NewReader(&buf)
	for i, wantReq := range want {
		var got Request
		if err := r.ReadRequest(&got); err != nil {
			t.Fatalf("ReadRequest #%d: %v", i, err)
		}
		if got != wantReq {
			t.Fatalf("ReadRequest #%d = %+v, want %+v", i, got, wantReq)
		}
	}
}

func TestResponseErrorAccessor(t *testing.T) {
	if err := OkEmpty().Error(); err != nil {
		t.Fatalf("OkEmpty().Error() = %v, want nil", err)
	}
	resp := Fail(errors.New("key not found"))
	if err := resp.Error(); err == nil || err.Error() != "key not found" {
		t.Fatalf("Fail(...).Error() = %v, want %q", err, "key not found")
	}
}
