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

// Package logging is a small leveled wrapper over the standard log package.
// Verbosity is read from the KVS_LOG environment variable, the Go-idiomatic
// analogue of the "log verbosity from the environment" convention.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger writes leveled lines to an underlying *log.Logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New builds a Logger at level, writing to w with a timestamped prefix.
func New(level Level, w io.Writer) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// FromEnv reads KVS_LOG (default "info") and writes to os.Stderr, per the
// spec's standard-error error-reporting convention.
func FromEnv() *Logger {
	return New(parseLevel(os.Getenv("KVS_LOG")), os.Stderr)
}

func (l *Logger) log(level Level, tag, format string, args ...any) {
	if level > l.level {
		return
	}
	l.out.Printf(tag+" "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, "[error]", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, "[warn]", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, "[info]", format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, "[debug]", format, args...) }
