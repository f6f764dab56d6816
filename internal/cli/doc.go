// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the interactive shell for worldsmith.
//
// The shell reads lines with history and tab completion, dispatches them
// through the command registry, and renders results as styled terminal
// output. Every error, including a panic inside a command handler, is
// reported and the loop continues.
//
// # Key Types
//
//   - Shell: the read-eval-print loop over liner
//   - Dispatcher: line -> command resolution, parsing, execution
//
// # Usage
//
//	registry := commands.NewRegistry()
//	cli.RegisterWorldCommands(registry, w, cfg.World.DefaultDepth)
//	completer := commands.NewCompleter(registry, w)
//	shell := cli.NewShell(cfg.Prompt, cfg.History.File, registry, completer)
//	return shell.Run()
package cli
