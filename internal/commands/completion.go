// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
)

// =============================================================================
// COMPLETION ENGINE
// =============================================================================

// Completion is one suggestion for the text before the cursor.
type Completion struct {
	// Value is the replacement text, quoted if it contains whitespace
	Value string

	// Display is the human-readable form shown in the menu
	Display string

	// Description annotates the suggestion (command help, alias target)
	Description string

	// Span is the signed length of the fragment being replaced: the
	// suggestion replaces the Span characters ending at the cursor.
	// Always <= 0.
	Span int
}

// Catalog supplies live values for argument completion. The world model
// implements it from its in-memory cache.
type Catalog interface {
	EntityNames() []string
	EntityTypes() []string
	RelationshipTypes() []string
}

// Completer produces context-aware suggestions for a partial line. It
// walks the same token structure the parser will see and decides, from
// cursor position alone, whether the user is typing a command name, an
// argument name, or an argument value.
type Completer struct {
	registry *Registry
	catalog  Catalog
}

// NewCompleter creates a completer over a registry and a value catalog.
func NewCompleter(registry *Registry, catalog Catalog) *Completer {
	return &Completer{registry: registry, catalog: catalog}
}

// Complete returns suggestions for the text before the cursor, or nil
// when the position admits none. A panic anywhere in the engine yields
// no suggestions; completion must never take down the shell.
func (c *Completer) Complete(before string) (completions []Completion) {
	defer func() {
		if r := recover(); r != nil {
			completions = nil
		}
	}()

	// Inside an open quote nothing sensible can be offered.
	if HasUnmatchedQuotes(before) {
		return nil
	}

	fragment := currentFragment(before)
	words := Tokenize(before)

	// The fragment is a partial token; words may or may not include it
	// depending on whether the cursor follows whitespace.
	complete := words
	if fragment != "" && len(words) > 0 {
		complete = words[:len(words)-1]
	}

	if len(complete) == 0 {
		return c.completeCommand(fragment)
	}

	cmd := c.registry.Resolve(complete[0])
	if cmd == nil {
		return nil
	}

	if strings.HasPrefix(fragment, FlagPrefix) {
		return c.completeArgName(cmd, complete, fragment)
	}

	// A flag as the last complete token puts the cursor in value
	// position for that argument.
	last := complete[len(complete)-1]
	if strings.HasPrefix(last, FlagPrefix) {
		def := cmd.Arg(strings.TrimPrefix(last, FlagPrefix))
		if def == nil {
			return nil
		}
		return c.completeArgValue(def, fragment)
	}

	// Right after the command name, before anything else, there is
	// nothing to offer: the user must start typing a flag or submit.
	if len(complete) == 1 && fragment == "" {
		return nil
	}

	// Between argument pairs: offer the flags not used yet.
	return c.completeArgName(cmd, complete, fragment)
}

// currentFragment returns the partial token under the cursor: everything
// after the last whitespace character, empty when the cursor follows a
// space.
func currentFragment(before string) string {
	idx := strings.LastIndexFunc(before, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	return before[idx+1:]
}

// completeCommand suggests command names, then aliases, matching the
// fragment case-sensitively in registration order.
func (c *Completer) completeCommand(fragment string) []Completion {
	var out []Completion
	span := -len(fragment)

	for _, cmd := range c.registry.Commands() {
		if strings.HasPrefix(cmd.Name, fragment) {
			out = append(out, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Span:        span,
			})
		}
	}
	for _, alias := range c.registry.Aliases() {
		if strings.HasPrefix(alias, fragment) {
			target := c.registry.Resolve(alias)
			out = append(out, Completion{
				Value:       alias,
				Display:     alias,
				Description: "alias for " + target.Name,
				Span:        span,
			})
		}
	}
	return out
}

// completeArgName suggests `--name` flags the line has not used yet, in
// schema declaration order.
func (c *Completer) completeArgName(cmd *Command, complete []string, fragment string) []Completion {
	used := make(map[string]bool)
	for _, token := range complete[1:] {
		if strings.HasPrefix(token, FlagPrefix) {
			used[strings.TrimPrefix(token, FlagPrefix)] = true
		}
	}

	var out []Completion
	for _, def := range cmd.Args {
		if used[def.Name] {
			continue
		}
		flag := FlagPrefix + def.Name
		if strings.HasPrefix(flag, fragment) {
			out = append(out, Completion{
				Value:       flag,
				Display:     flag,
				Description: def.Help,
				Span:        -len(fragment),
			})
		}
	}
	return out
}

// completeArgValue suggests catalog values for the argument's role,
// matching the fragment case-insensitively. Values containing whitespace
// are double-quoted so the tokenizer reads them back as one token.
func (c *Completer) completeArgValue(def *ArgDef, fragment string) []Completion {
	var values []string
	switch def.Role {
	case RoleEntityName:
		values = c.catalog.EntityNames()
	case RoleEntityType:
		values = c.catalog.EntityTypes()
	case RoleRelationship:
		values = c.catalog.RelationshipTypes()
	default:
		return nil
	}

	lower := strings.ToLower(fragment)
	var out []Completion
	for _, value := range values {
		if !strings.HasPrefix(strings.ToLower(value), lower) {
			continue
		}
		insert := value
		if def.Role == RoleRelationship {
			insert = canonicalLabel(value)
		}
		if strings.ContainsAny(insert, " \t") {
			insert = `"` + insert + `"`
		}
		out = append(out, Completion{
			Value:   insert,
			Display: value,
			Span:    -len(fragment),
		})
	}
	return out
}

// canonicalLabel normalizes a relationship type the way the world model
// stores it: trimmed, uppercased, spaces collapsed to underscores.
func canonicalLabel(relType string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(relType), " ", "_"))
}
