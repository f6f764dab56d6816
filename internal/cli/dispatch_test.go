// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/worldsmith/internal/commands"
	"github.com/jeranaias/worldsmith/internal/store"
	"github.com/jeranaias/worldsmith/internal/world"
)

func newTestRegistry() *commands.Registry {
	r := commands.NewRegistry()
	r.Register(&commands.Command{
		Name:        "greet",
		Description: "Say hello",
		Aliases:     []string{"g"},
		Args: []commands.ArgDef{
			{Name: "name", Help: "Who to greet", Required: true},
			{Name: "loud", Help: "Shout"},
		},
		Handler: func(args map[string]string) (any, error) {
			greeting := "hello " + args["name"]
			if args["loud"] == "yes" {
				greeting = strings.ToUpper(greeting)
			}
			return greeting, nil
		},
	})
	r.Register(&commands.Command{
		Name: "boom",
		Handler: func(args map[string]string) (any, error) {
			panic("handler exploded")
		},
	})
	return r
}

func TestDispatch(t *testing.T) {
	d := NewDispatcher(newTestRegistry())

	tests := []struct {
		name    string
		line    string
		want    string
		wantErr bool
	}{
		{"by name", "greet --name world", "hello world", false},
		{"by alias", "g --name world", "hello world", false},
		{"quoted value", `greet --name "middle earth"`, "hello middle earth", false},
		{"two args", "greet --name world --loud yes", "HELLO WORLD", false},
		{"unknown command", "bogus --name world", "", true},
		{"missing required", "greet --loud yes", "", true},
		{"unknown argument", "greet --name world --color red", "", true},
		{"flag without value", "greet --name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.Dispatch(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Dispatch(%q) expected error, got %#v", tt.line, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dispatch(%q) unexpected error: %v", tt.line, err)
			}
			if result != tt.want {
				t.Errorf("Dispatch(%q) = %#v, want %q", tt.line, result, tt.want)
			}
		})
	}
}

func TestDispatchUnknownCommandError(t *testing.T) {
	d := NewDispatcher(newTestRegistry())

	_, err := d.Dispatch("bogus --x y")
	var unknown *UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %T, want *UnknownCommandError", err)
	}
	if unknown.Name != "bogus" {
		t.Errorf("Name = %q, want bogus", unknown.Name)
	}
}

func TestDispatchHelpShortCircuits(t *testing.T) {
	d := NewDispatcher(newTestRegistry())

	// --help wins even though required args are missing and the token
	// sequence would not parse.
	result, err := d.Dispatch("greet --help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, ok := result.(string)
	if !ok {
		t.Fatalf("result = %T, want string usage text", result)
	}
	for _, want := range []string{"greet", "--name", "--loud", "g"} {
		if !strings.Contains(text, want) {
			t.Errorf("usage missing %q:\n%s", want, text)
		}
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := NewDispatcher(newTestRegistry())

	_, err := d.Dispatch("boom")
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
	if !strings.Contains(err.Error(), "handler exploded") {
		t.Errorf("error = %v, want panic message", err)
	}
}

func TestDispatchEmptyLine(t *testing.T) {
	d := NewDispatcher(newTestRegistry())

	result, err := d.Dispatch("   ")
	if err != nil || result != nil {
		t.Errorf("Dispatch(blank) = (%v, %v), want (nil, nil)", result, err)
	}
}

// =============================================================================
// WORLD COMMAND WIRING
// =============================================================================

// memStore is an in-memory world.Store for wiring tests.
type memStore struct {
	entities map[string]store.EntityRecord
	rels     []store.RelationshipRecord
}

func newMemStore() *memStore {
	return &memStore{entities: make(map[string]store.EntityRecord)}
}

func (m *memStore) CreateEntity(rec store.EntityRecord) error {
	m.entities[rec.Name] = rec
	return nil
}

func (m *memStore) MergeEntity(rec store.EntityRecord) error {
	m.entities[rec.Name] = rec
	return nil
}

func (m *memStore) UpdateEntity(name string, upd store.EntityUpdate) error {
	rec := m.entities[name]
	if upd.Type != "" {
		rec.Type = upd.Type
	}
	if upd.Description != "" {
		rec.Description = upd.Description
	}
	if upd.NewName != "" && upd.NewName != name {
		delete(m.entities, name)
		rec.Name = upd.NewName
	}
	m.entities[rec.Name] = rec
	return nil
}

func (m *memStore) ReplaceProperties(name string, props map[string]any) error {
	rec := m.entities[name]
	rec.Props = props
	m.entities[name] = rec
	return nil
}

func (m *memStore) DeleteEntity(name string) error {
	delete(m.entities, name)
	kept := m.rels[:0]
	for _, rel := range m.rels {
		if rel.Source != name && rel.Target != name {
			kept = append(kept, rel)
		}
	}
	m.rels = kept
	return nil
}

func (m *memStore) CreateRelationship(rec store.RelationshipRecord) error {
	m.rels = append(m.rels, rec)
	return nil
}

func (m *memStore) QueryEntities(f store.EntityFilter) ([]store.EntityRecord, error) {
	var out []store.EntityRecord
	for _, rec := range m.entities {
		if f.Type != "" && rec.Type != f.Type {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memStore) QueryRelationships(f store.RelationshipFilter) ([]store.RelationshipRecord, error) {
	var out []store.RelationshipRecord
	for _, rel := range m.rels {
		if f.Type != "" && rel.Type != f.Type {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

func (m *memStore) Clear() error {
	m.entities = make(map[string]store.EntityRecord)
	m.rels = nil
	return nil
}

func TestWorldCommandsEndToEnd(t *testing.T) {
	w := world.New(newMemStore())
	registry := commands.NewRegistry()
	RegisterWorldCommands(registry, w, 3)
	d := NewDispatcher(registry)

	steps := []string{
		`add_entity --name Gondor --type Kingdom --description "Realm of the west"`,
		`ae --name "Minas Tirith" --type City --properties population=50000`,
		`ar --source "Minas Tirith" --type "capital of" --target Gondor`,
		`ap --entity Gondor --name ruler --value Aragorn`,
	}
	for _, step := range steps {
		if _, err := d.Dispatch(step); err != nil {
			t.Fatalf("Dispatch(%q) failed: %v", step, err)
		}
	}

	result, err := d.Dispatch("ve --name Gondor")
	if err != nil {
		t.Fatalf("view_entity failed: %v", err)
	}
	detail, ok := result.(world.EntityDetail)
	if !ok {
		t.Fatalf("result = %T, want world.EntityDetail", result)
	}
	if detail.Type != "Kingdom" || detail.Dynamic["ruler"] != "Aragorn" {
		t.Errorf("unexpected detail: %+v", detail)
	}

	result, err = d.Dispatch(`vg --name "Minas Tirith" --depth 2`)
	if err != nil {
		t.Fatalf("view_graph failed: %v", err)
	}
	node, ok := result.(*world.GraphNode)
	if !ok {
		t.Fatalf("result = %T, want *world.GraphNode", result)
	}
	if len(node.Relationships) != 1 || node.Relationships[0].Target.Name != "Gondor" {
		t.Errorf("unexpected graph: %+v", node)
	}

	if _, err := d.Dispatch("de --name Gondor"); err != nil {
		t.Fatalf("delete_entity failed: %v", err)
	}
	if _, err := d.Dispatch("ve --name Gondor"); err == nil {
		t.Error("view_entity should fail after delete")
	}
	if _, err := d.Dispatch("vg --name Gondor"); err == nil {
		t.Error("view_graph should fail for a deleted entity")
	}
}
