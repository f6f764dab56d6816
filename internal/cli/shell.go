// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/worldsmith/internal/commands"
	"github.com/jeranaias/worldsmith/internal/util"
)

// =============================================================================
// INTERACTIVE SHELL
// =============================================================================

// Shell is the interactive read-eval-print loop. It owns the terminal:
// line editing and history via liner, completion via the commands
// engine, dispatch and rendering for every submitted line.
type Shell struct {
	line        *liner.State
	historyFile string
	prompt      string
	dispatcher  *Dispatcher
	registry    *commands.Registry
	out         io.Writer
}

// NewShell creates a shell with history loaded from historyFile.
func NewShell(prompt, historyFile string, registry *commands.Registry, completer *commands.Completer) *Shell {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetWordCompleter(wordCompleter(completer))

	s := &Shell{
		line:        line,
		historyFile: historyFile,
		prompt:      prompt,
		dispatcher:  NewDispatcher(registry),
		registry:    registry,
		out:         os.Stdout,
	}
	s.loadHistory()
	return s
}

// wordCompleter bridges the completion engine into liner's word
// completion contract. Each suggestion's span tells us how much of the
// text before the cursor it replaces.
func wordCompleter(completer *commands.Completer) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		before, after := line[:pos], line[pos:]

		suggestions := completer.Complete(before)
		if len(suggestions) == 0 {
			return before, nil, after
		}

		head := before[:len(before)+suggestions[0].Span]
		words := make([]string, len(suggestions))
		for i, s := range suggestions {
			words[i] = s.Value
		}
		return head, words, after
	}
}

// Run processes lines until exit or EOF. Errors, including panics inside
// command handlers, are printed and the loop continues; only Ctrl+D or
// an explicit exit ends the session.
func (s *Shell) Run() error {
	defer s.Close()

	fmt.Fprintln(s.out, headerStyle.Render("worldsmith"))
	fmt.Fprintln(s.out, infoStyle.Render("Type help for commands, exit to quit."))
	fmt.Fprintln(s.out)

	for {
		input, err := s.line.Prompt(promptStyle.Render(s.prompt))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C abandons the current line, not the session.
				continue
			}
			// EOF (Ctrl+D) or terminal failure ends the session.
			fmt.Fprintln(s.out)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.line.AppendHistory(input)

		if input == "exit" || input == "quit" {
			fmt.Fprintln(s.out, infoStyle.Render("Goodbye!"))
			return nil
		}
		if input == "help" {
			fmt.Fprintln(s.out, HelpText(s.registry))
			continue
		}

		result, err := s.dispatcher.Dispatch(input)
		if err != nil {
			fmt.Fprintln(s.out, renderError(err))
			continue
		}
		if rendered := renderResult(result); rendered != "" {
			fmt.Fprintln(s.out, rendered)
		}
	}
}

// renderError formats a dispatch failure. An unknown command is a typo,
// not a failure, and renders as a warning with a hint.
func renderError(err error) string {
	var unknown *UnknownCommandError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("%s %v (type help to list commands)", warningStyle.Render("[Warning]"), err)
	}
	return fmt.Sprintf("%s %v", errorStyle.Render("[Error]"), err)
}

// loadHistory loads command history from file.
func (s *Shell) loadHistory() {
	if f, err := os.Open(s.historyFile); err == nil {
		s.line.ReadHistory(f)
		f.Close()
	}
}

// saveHistory persists command history with owner-only permissions. The
// write is atomic so a crash mid-save never truncates the old history.
func (s *Shell) saveHistory() {
	var buf bytes.Buffer
	if _, err := s.line.WriteHistory(&buf); err != nil {
		log.Printf("cli: failed to serialize history: %v", err)
		return
	}
	if err := util.AtomicWriteFile(s.historyFile, buf.Bytes(), 0600); err != nil {
		log.Printf("cli: failed to save history: %v", err)
	}
}

// Close saves history and restores the terminal.
func (s *Shell) Close() {
	s.saveHistory()
	s.line.Close()
}
