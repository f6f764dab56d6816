// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"reflect"
	"testing"
)

// fakeCatalog is a fixed value source for argument completion tests.
type fakeCatalog struct {
	names []string
	types []string
	rels  []string
}

func (f *fakeCatalog) EntityNames() []string       { return f.names }
func (f *fakeCatalog) EntityTypes() []string       { return f.types }
func (f *fakeCatalog) RelationshipTypes() []string { return f.rels }

func newTestCompleter() *Completer {
	r := NewRegistry()
	r.Register(&Command{
		Name:        "add_entity",
		Description: "Create an entity",
		Aliases:     []string{"ae"},
		Args: []ArgDef{
			{Name: "name", Help: "Entity name", Required: true},
			{Name: "type", Help: "Entity type", Role: RoleEntityType, Required: true},
			{Name: "description", Help: "Free-form description"},
		},
	})
	r.Register(&Command{
		Name:        "list_entities",
		Description: "List entities",
		Aliases:     []string{"le"},
		Args: []ArgDef{
			{Name: "type", Role: RoleEntityType},
		},
	})
	r.Register(&Command{
		Name:    "add_relationship",
		Aliases: []string{"ar"},
		Args: []ArgDef{
			{Name: "source", Role: RoleEntityName, Required: true},
			{Name: "type", Role: RoleRelationship, Required: true},
			{Name: "target", Role: RoleEntityName, Required: true},
		},
	})

	catalog := &fakeCatalog{
		names: []string{"Gandalf", "Minas Tirith", "minas morgul"},
		types: []string{"Character", "City"},
		rels:  []string{"ally of", "RULES"},
	}
	return NewCompleter(r, catalog)
}

func values(completions []Completion) []string {
	if len(completions) == 0 {
		return nil
	}
	out := make([]string, len(completions))
	for i, c := range completions {
		out[i] = c.Value
	}
	return out
}

func TestCompleteCommandPosition(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name   string
		before string
		want   []string
	}{
		{"empty line offers everything", "", []string{"add_entity", "list_entities", "add_relationship", "ae", "le", "ar"}},
		{"prefix a", "a", []string{"add_entity", "add_relationship", "ae", "ar"}},
		{"prefix l", "l", []string{"list_entities", "le"}},
		{"case-sensitive", "A", nil},
		{"no match", "x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(c.Complete(tt.before))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %#v, want %#v", tt.before, got, tt.want)
			}
		})
	}
}

func TestCompleteSpanCoversFragment(t *testing.T) {
	c := newTestCompleter()

	completions := c.Complete("add_e")
	if len(completions) == 0 {
		t.Fatal("expected suggestions for add_e")
	}
	for _, comp := range completions {
		if comp.Span != -5 {
			t.Errorf("Span = %d, want -5 for fragment add_e", comp.Span)
		}
	}

	if completions := c.Complete(""); len(completions) > 0 && completions[0].Span != 0 {
		t.Errorf("Span = %d, want 0 for empty fragment", completions[0].Span)
	}
}

func TestCompleteSuppressed(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name   string
		before string
	}{
		{"unmatched quote", `add_entity --name "Minas`},
		{"after command before flag", "add_entity "},
		{"unknown command", "bogus --na"},
		{"value position for free-form arg", "add_entity --name "},
		{"bare word after command", "add_entity foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Complete(tt.before); got != nil {
				t.Errorf("Complete(%q) = %#v, want nil", tt.before, got)
			}
		})
	}
}

func TestCompleteArgNames(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name   string
		before string
		want   []string
	}{
		{"all args on bare prefix", "add_entity --", []string{"--name", "--type", "--description"}},
		{"narrowed by fragment", "add_entity --t", []string{"--type"}},
		{"used args filtered", "add_entity --name Rivendell --", []string{"--type", "--description"}},
		{"offered between pairs", "add_entity --name Rivendell ", []string{"--type", "--description"}},
		{"alias resolves to schema", "ae --d", []string{"--description"}},
		{"everything used", "list_entities --type City --", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(c.Complete(tt.before))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %#v, want %#v", tt.before, got, tt.want)
			}
		})
	}
}

func TestCompleteArgValues(t *testing.T) {
	c := newTestCompleter()

	tests := []struct {
		name   string
		before string
		want   []string
	}{
		{"entity type prefix ci", "list_entities --type ci", []string{"City"}},
		{"all types on empty fragment", "list_entities --type ", []string{"Character", "City"}},
		{"entity names ci with quoting", "ar --source mi", []string{`"Minas Tirith"`, `"minas morgul"`}},
		{"unquoted single word", "ar --target Gan", []string{"Gandalf"}},
		{"relationship normalized", "ar --type al", []string{"ALLY_OF"}},
		{"relationship already canonical", "ar --type RU", []string{"RULES"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(c.Complete(tt.before))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %#v, want %#v", tt.before, got, tt.want)
			}
		})
	}
}

func TestCompleteDisplayKeepsOriginalRelType(t *testing.T) {
	c := newTestCompleter()

	completions := c.Complete("ar --type al")
	if len(completions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(completions))
	}
	if completions[0].Display != "ally of" {
		t.Errorf("Display = %q, want the human-typed form", completions[0].Display)
	}
	if completions[0].Value != "ALLY_OF" {
		t.Errorf("Value = %q, want the canonical form", completions[0].Value)
	}
}

func TestCompleteNeverPanics(t *testing.T) {
	c := NewCompleter(NewRegistry(), nil) // nil catalog would panic if reached

	inputs := []string{"", "x", "x --y z", `"`, "   ", "a b c d e f"}
	for _, input := range inputs {
		if got := c.Complete(input); got != nil {
			t.Errorf("Complete(%q) = %#v, want nil on empty registry", input, got)
		}
	}
}
