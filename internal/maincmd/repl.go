package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mna/mainer"
	"github.com/mna/wisp/lang/runtime"
)

// runREPL drives an interactive read-eval-print loop over g's persistent
// top-level scope, per SPEC_FULL.md §6's `-r`: chzyer/readline supplies
// line editing and a persisted history file in place of a hand-rolled
// bufio.Scanner loop, and Globals.ReplReady decides when an accumulated,
// possibly multi-line submission is ready to compile.
func runREPL(ctx context.Context, g *runtime.Globals, stdio mainer.Stdio) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "wisp> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close()

	var pending strings.Builder
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			pending.Reset()
			rl.SetPrompt("wisp> ")
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("repl: %w", err)
		}

		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)

		if !g.ReplReady(pending.String()) {
			rl.SetPrompt("....> ")
			continue
		}

		submission := pending.String()
		pending.Reset()
		rl.SetPrompt("wisp> ")
		if strings.TrimSpace(submission) == "" {
			continue
		}

		v, err := g.ExecREPL(submission)
		if handled, callErr := g.HandleTrampoline(err); handled {
			err = callErr
		}
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		if v != nil {
			fmt.Fprintln(stdio.Stdout, v.String())
		}
	}
}

// historyFilePath returns the path the REPL persists its line history to,
// falling back to the working directory if the user's home directory
// can't be determined.
func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wisp_history"
	}
	return filepath.Join(home, ".wisp_history")
}
