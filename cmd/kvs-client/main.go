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

// Command kvs-client is the CLI front end for one-shot set/get/rm calls and
// the interactive repl (see internal/client). Flag parsing itself is out of
// this repository's scope (§1); it leans on the standard flag package.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/launix-de/kvs/internal/client"
)

const defaultAddr = "127.0.0.1:4000"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	fs := flag.NewFlagSet("kvs-client "+sub, flag.ExitOnError)
	addr := fs.String("addr", defaultAddr, "server address, IP:PORT")

	switch sub {
	case "set":
		fs.Parse(os.Args[2:])
		args := fs.Args()
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: kvs-client set KEY VALUE [--addr IP:PORT]")
			os.Exit(1)
		}
		runSet(*addr, args[0], args[1])

	case "get":
		fs.Parse(os.Args[2:])
		args := fs.Args()
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: kvs-client get KEY [--addr IP:PORT]")
			os.Exit(1)
		}
		runGet(*addr, args[0])

	case "rm":
		fs.Parse(os.Args[2:])
		args := fs.Args()
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: kvs-client rm KEY [--addr IP:PORT]")
			os.Exit(1)
		}
		runRemove(*addr, args[0])

	case "repl":
		fs.Parse(os.Args[2:])
		runRepl(*addr)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  kvs-client set KEY VALUE [--addr IP:PORT]
  kvs-client get KEY [--addr IP:PORT]
  kvs-client rm KEY [--addr IP:PORT]
  kvs-client repl [--addr IP:PORT]`)
}

func dial(addr string) *client.Client {
	c, err := client.Dial(addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c
}

func runSet(addr, key, value string) {
	c := dial(addr)
	defer c.Close()
	if err := c.Set(key, value); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runGet prints "Key not found" to stdout and exits 0 on a miss — a miss is
// not an error, per §6.
func runGet(addr, key string) {
	c := dial(addr)
	defer c.Close()
	value, found, err := c.Get(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !found {
		fmt.Println("Key not found")
		return
	}
	fmt.Println(value)
}

// runRemove exits nonzero on a missing key, unlike runGet.
func runRemove(addr, key string) {
	c := dial(addr)
	defer c.Close()
	if err := c.Remove(key); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRepl(addr string) {
	c := dial(addr)
	defer c.Close()
	if err := client.Repl(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
