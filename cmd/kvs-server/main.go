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

// Command kvs-server binds a listener, opens the requested storage backend
// rooted at the current directory, and serves the wire protocol against it
// through a fixed-size worker pool. Process wiring only: OS-signal handling
// and argument-parsing internals beyond the stdlib flag package are out of
// this repository's scope (§1).
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"runtime"

	"github.com/launix-de/kvs/internal/config"
	"github.com/launix-de/kvs/internal/engine"
	"github.com/launix-de/kvs/internal/engine/kvs"
	"github.com/launix-de/kvs/internal/engine/s3kv"
	"github.com/launix-de/kvs/internal/engine/sledstub"
	"github.com/launix-de/kvs/internal/engine/sqlkv"
	"github.com/launix-de/kvs/internal/logging"
	"github.com/launix-de/kvs/internal/pool"
	"github.com/launix-de/kvs/internal/server"
)

const defaultAddr = "127.0.0.1:4000"

func main() {
	settings := parseFlags()
	log := logging.FromEnv()

	log.Infof("kvs-server starting, engine=%s addr=%s dir=%s", settings.Engine, settings.Addr, settings.Dir)

	eng, err := openEngine(settings, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.RegisterCloser(func() {
		if err := eng.Close(); err != nil {
			log.Warnf("close: %v", err)
		}
	})

	ln, err := net.Listen("tcp", settings.Addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := pool.New(runtime.NumCPU(), log)
	srv := server.New(ln, eng, p, log)

	if err := srv.Serve(); err != nil {
		log.Errorf("serve: %v", err)
		os.Exit(1)
	}
}

func parseFlags() config.Settings {
	addr := flag.String("addr", defaultAddr, "listen address, IP:PORT")
	engineName := flag.String("engine", "kvs", "storage backend: kvs, sled, s3, mysql")
	dir := flag.String("dir", ".", "store directory")
	threshold := flag.String("compaction-threshold", "1MiB", "log size that triggers compaction, e.g. 1MiB or a plain byte count")
	s3Bucket := flag.String("s3-bucket", "", "bucket name (--engine s3)")
	s3Endpoint := flag.String("s3-endpoint", "", "custom S3 endpoint, e.g. for MinIO (--engine s3)")
	s3Region := flag.String("s3-region", "", "S3 region (--engine s3)")
	mysqlDSN := flag.String("mysql-dsn", "", "go-sql-driver/mysql DSN (--engine mysql)")
	flag.Parse()

	thresholdBytes, err := config.ParseSize(*threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --compaction-threshold %q: %v\n", *threshold, err)
		os.Exit(1)
	}

	return config.Settings{
		Addr:                *addr,
		Engine:              *engineName,
		Dir:                 *dir,
		CompactionThreshold: thresholdBytes,
		S3Bucket:            *s3Bucket,
		S3Endpoint:          *s3Endpoint,
		S3Region:            *s3Region,
		MySQLDSN:            *mysqlDSN,
	}
}

// openEngine selects the backend by name. Every backend consults the same
// engine marker file (internal/engine.CheckMarker) before doing anything
// else, so a mismatched --engine exits nonzero before a socket is ever
// bound, regardless of whether the requested backend is otherwise usable.
func openEngine(s config.Settings, log *logging.Logger) (engine.Engine, error) {
	switch s.Engine {
	case "kvs", "":
		return kvs.Open(s.Dir, s.CompactionThreshold, log)
	case "sled":
		return sledstub.Open(s.Dir)
	case "s3":
		if s.S3Bucket == "" {
			return nil, fmt.Errorf("--engine s3 requires --s3-bucket")
		}
		return s3kv.Open(s.Dir, s3kv.Options{
			Bucket:   s.S3Bucket,
			Region:   s.S3Region,
			Endpoint: s.S3Endpoint,
		})
	case "mysql":
		if s.MySQLDSN == "" {
			return nil, fmt.Errorf("--engine mysql requires --mysql-dsn")
		}
		return sqlkv.Open(s.Dir, s.MySQLDSN)
	default:
		return nil, fmt.Errorf("unknown engine %q", s.Engine)
	}
}
