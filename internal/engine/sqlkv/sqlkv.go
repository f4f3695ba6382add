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

// Package sqlkv is a MySQL-backed engine.Engine, using database/sql with
// go-sql-driver/mysql the way the teacher repository's driver package talks
// to MySQL over the wire protocol. The whole store is one table with a
// primary key on k, so Set is a single upsert and Get/Remove are a single
// statement each; there is no local log or index to recover on Open.
package sqlkv

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/launix-de/kvs/internal/engine"
)

const name = "sql"

const createTableSQL = `CREATE TABLE IF NOT EXISTS kv (
	k VARCHAR(255) PRIMARY KEY,
	v LONGBLOB NOT NULL
)`

// Store is an engine.Engine backed by a MySQL table.
type Store struct {
	db *sql.DB
}

// Open checks the marker file in dir, then connects to dsn and ensures the
// backing table exists.
func Open(dir, dsn string) (*Store, error) {
	if err := engine.CheckMarker(dir, name); err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlkv: creating table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)",
		key, value,
	)
	return err
}

func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT v FROM kv WHERE k = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Remove(key string) error {
	res, err := s.db.Exec("DELETE FROM kv WHERE k = ?", key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrKeyNotFound
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
