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

package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

const (
	prompt       = "\033[32m>\033[0m "
	resultprompt = "\033[31m=\033[0m "
)

// Repl runs an interactive session against an already-connected Client,
// in the same request-a-line/print-a-result shape as the teacher
// repository's scm.Repl, adapted to the three kvs commands instead of a
// full language.
func Repl(c *Client) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       ".kvs-client-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		fmt.Print(resultprompt)
		fmt.Println(runCommand(c, line))
	}
}

// runCommand executes one repl line and formats its result as text; it
// never panics, so a single bad command cannot end the session.
func runCommand(c *Client, line string) string {
	fields := strings.Fields(line)
	switch fields[0] {
	case "set":
		if len(fields) < 3 {
			return "usage: set <key> <value>"
		}
		value := strings.Join(fields[2:], " ")
		if err := c.Set(fields[1], value); err != nil {
			return "error: " + err.Error()
		}
		return "ok"

	case "get":
		if len(fields) != 2 {
			return "usage: get <key>"
		}
		value, found, err := c.Get(fields[1])
		if err != nil {
			return "error: " + err.Error()
		}
		if !found {
			return "(not found)"
		}
		return value

	case "rm":
		if len(fields) != 2 {
			return "usage: rm <key>"
		}
		if err := c.Remove(fields[1]); err != nil {
			return "error: " + err.Error()
		}
		return "ok"

	default:
		return "unknown command: " + fields[0]
	}
}
