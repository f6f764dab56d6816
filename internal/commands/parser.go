// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// FlagPrefix introduces a named argument on the command line.
const FlagPrefix = "--"

// =============================================================================
// TOKENIZER
// =============================================================================

// HasUnmatchedQuotes reports whether the text contains an odd number of
// double or single quotes. Unmatched quotes switch tokenization to naive
// splitting and suppress completion entirely.
func HasUnmatchedQuotes(text string) bool {
	return strings.Count(text, `"`)%2 != 0 || strings.Count(text, `'`)%2 != 0
}

// Tokenize splits a line into words. Balanced quoting gets shell-style
// splitting (quoted substrings become single tokens, quotes stripped);
// unmatched quotes, or a syntax error from the shell splitter, fall back
// to naive whitespace splitting. Deterministic: no hidden state.
func Tokenize(line string) []string {
	if HasUnmatchedQuotes(line) {
		return strings.Fields(line)
	}
	tokens, err := splitQuoted(line)
	if err != nil {
		return strings.Fields(line)
	}
	return tokens
}

// errTrailingEscape is the one syntax error the shell splitter can hit on
// input that already passed the quote-balance check.
var errTrailingEscape = errors.New("trailing escape character")

// splitQuoted splits on whitespace while treating matched quoted
// substrings as single tokens. Backslash escapes the following character;
// a dangling backslash at end of input is a syntax error.
func splitQuoted(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	var inSingle, inDouble bool
	wrote := false

	for i := 0; i < len(input); i++ {
		char := rune(input[i])

		switch {
		case char == '\'' && !inDouble:
			inSingle = !inSingle
			wrote = true // empty quotes still produce a token

		case char == '"' && !inSingle:
			inDouble = !inDouble
			wrote = true

		case char == '\\':
			if i+1 >= len(input) {
				return nil, errTrailingEscape
			}
			i++
			current.WriteByte(input[i])
			wrote = true

		case unicode.IsSpace(char) && !inSingle && !inDouble:
			if wrote {
				tokens = append(tokens, current.String())
				current.Reset()
				wrote = false
			}

		default:
			current.WriteRune(char)
			wrote = true
		}
	}

	if wrote {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// =============================================================================
// ARGUMENT PARSER
// =============================================================================

// MalformedArgumentError reports a token sequence that breaks the
// `--name value` pairing contract.
type MalformedArgumentError struct {
	Token  string
	Reason string
}

func (e *MalformedArgumentError) Error() string {
	return fmt.Sprintf("malformed argument %q: %s", e.Token, e.Reason)
}

// UnknownArgumentError reports a parsed argument the command's schema
// does not define.
type UnknownArgumentError struct {
	Command string
	Name    string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("%s: unknown argument --%s", e.Command, e.Name)
}

// MissingArgumentError reports an absent required argument.
type MissingArgumentError struct {
	Command string
	Name    string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: required argument --%s missing", e.Command, e.Name)
}

// ParseArgs converts the token list after the command name into a
// name->value mapping. Tokens must strictly alternate `--name value`; a
// flag without a value, a value where a flag is expected, or a flag
// followed by another flag all fail. A repeated flag keeps its last
// value.
func ParseArgs(tokens []string) (map[string]string, error) {
	args := make(map[string]string, len(tokens)/2)

	for i := 0; i < len(tokens); i += 2 {
		token := tokens[i]
		if !strings.HasPrefix(token, FlagPrefix) {
			return nil, &MalformedArgumentError{Token: token, Reason: "expected a --name flag"}
		}
		name := token[len(FlagPrefix):]
		if name == "" {
			return nil, &MalformedArgumentError{Token: token, Reason: "empty argument name"}
		}
		if i+1 >= len(tokens) {
			return nil, &MalformedArgumentError{Token: token, Reason: "no value provided"}
		}
		value := tokens[i+1]
		if strings.HasPrefix(value, FlagPrefix) {
			// Never consume the next flag as a value.
			return nil, &MalformedArgumentError{Token: token, Reason: "no value provided"}
		}
		args[name] = value
	}

	return args, nil
}

// ValidateArgs checks a parsed mapping against the command's schema:
// every provided name must be defined, every required argument present.
func ValidateArgs(cmd *Command, args map[string]string) error {
	for name := range args {
		if cmd.Arg(name) == nil {
			return &UnknownArgumentError{Command: cmd.Name, Name: name}
		}
	}
	for _, def := range cmd.Args {
		if def.Required {
			if _, ok := args[def.Name]; !ok {
				return &MissingArgumentError{Command: cmd.Name, Name: def.Name}
			}
		}
	}
	return nil
}

// ParseProperties parses a free-form property bag value of the form
// "key=value,key2=value2" into a map. Whitespace around keys and values
// is trimmed; a pair without '=' or with an empty key is malformed.
func ParseProperties(raw string) (map[string]any, error) {
	props := make(map[string]any)
	if strings.TrimSpace(raw) == "" {
		return props, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, &MalformedArgumentError{Token: pair, Reason: "expected key=value"}
		}
		props[key] = strings.TrimSpace(value)
	}
	return props, nil
}
