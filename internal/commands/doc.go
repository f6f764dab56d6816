// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command system for the worldsmith shell.
//
// It covers the whole interpretation pipeline short of execution: a
// quote-aware tokenizer, the command/alias registry with typed named
// arguments, the `--name value` argument parser, and the context-aware
// completion engine.
//
// # Key Types
//
//   - Registry: command table plus a separate alias table
//   - ArgDef: one named argument with a completion role
//   - Completer: position-aware suggestions backed by a Catalog
//   - Completion: one suggestion with its fragment replacement span
//
// # Usage
//
// Parse and dispatch a submitted line:
//
//	tokens := commands.Tokenize(rest)
//	args, err := commands.ParseArgs(tokens)
//
// Complete a partial line:
//
//	suggestions := completer.Complete(textBeforeCursor)
package commands
