// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log"
	"strings"

	"github.com/jeranaias/worldsmith/internal/commands"
)

// =============================================================================
// DISPATCH ERRORS
// =============================================================================

// UnknownCommandError reports a line whose leading token resolves to
// neither a command nor an alias.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q (type help for a list)", e.Name)
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher turns a submitted line into a command invocation.
type Dispatcher struct {
	registry *commands.Registry
}

// NewDispatcher creates a dispatcher over a registry.
func NewDispatcher(registry *commands.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch runs one line and returns its displayable result. The line is
// split at the first " --": everything before it is the command name (or
// alias), the remainder the argument text. A "--help" token anywhere in
// the arguments prints usage instead of executing.
//
// A panic in a command handler is converted to an error so one bad
// command never takes down the shell.
func (d *Dispatcher) Dispatch(line string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cli: panic in command handler: %v", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	name, argText := splitCommandLine(line)
	if name == "" {
		return nil, nil
	}

	cmd := d.registry.Resolve(name)
	if cmd == nil {
		return nil, &UnknownCommandError{Name: name}
	}

	tokens := commands.Tokenize(argText)
	for _, token := range tokens {
		if token == "--help" {
			return Usage(cmd), nil
		}
	}

	args, err := commands.ParseArgs(tokens)
	if err != nil {
		return nil, err
	}
	if err := commands.ValidateArgs(cmd, args); err != nil {
		return nil, err
	}

	return cmd.Handler(args)
}

// splitCommandLine separates the command name from the argument text at
// the first " --". A line with no arguments is all name.
func splitCommandLine(line string) (name, argText string) {
	line = strings.TrimSpace(line)
	if idx := strings.Index(line, " --"); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:])
	}
	return line, ""
}

// Usage renders the help text for one command: description, arguments in
// schema order, and aliases.
func Usage(cmd *commands.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n", headerStyle.Render(cmd.Name), cmd.Description)

	if len(cmd.Args) > 0 {
		b.WriteString("\nArguments:\n")
		for _, def := range cmd.Args {
			marker := "optional"
			if def.Required {
				marker = "required"
			}
			fmt.Fprintf(&b, "  %s  %s (%s)\n",
				commandStyle.Render(fmt.Sprintf("--%-14s", def.Name)),
				def.Help,
				marker)
		}
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&b, "\nAliases: %s\n", strings.Join(cmd.Aliases, ", "))
	}
	return b.String()
}

// HelpText renders the overview of every registered command.
func HelpText(registry *commands.Registry) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Commands"))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(strings.Repeat("─", 20)))
	b.WriteString("\n")

	for _, cmd := range registry.Commands() {
		name := cmd.Name
		if len(cmd.Aliases) > 0 {
			name += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&b, "  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-28s", name)),
			infoStyle.Render(cmd.Description))
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Append --help to any command for its arguments. Type exit to quit."))
	return b.String()
}
