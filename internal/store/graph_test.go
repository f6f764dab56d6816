// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewGraph(db)
}

func TestEntityRoundTrip(t *testing.T) {
	g := newTestGraph(t)

	rec := EntityRecord{
		Name:        "Minas Tirith",
		Type:        "City",
		Description: "Capital of Gondor",
		Props:       map[string]any{"population": "50000"},
	}
	require.NoError(t, g.CreateEntity(rec))

	got, err := g.ReadEntity("Minas Tirith")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, rec.Name, got.Name)
	require.Equal(t, rec.Type, got.Type)
	require.Equal(t, rec.Description, got.Description)
	require.Equal(t, "50000", got.Props["population"])
}

func TestReadEntityMissingIsNilNotError(t *testing.T) {
	g := newTestGraph(t)

	got, err := g.ReadEntity("nowhere")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCreateEntityDuplicateFails(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Gondor", Type: "Kingdom"}))
	err := g.CreateEntity(EntityRecord{Name: "Gondor", Type: "City"})
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, "create entity", storeErr.Op)
}

func TestMergeEntityOverwrites(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.MergeEntity(EntityRecord{Name: "Gondor", Type: "Kingdom", Description: "old"}))
	require.NoError(t, g.MergeEntity(EntityRecord{Name: "Gondor", Type: "Kingdom", Description: "new"}))

	got, err := g.ReadEntity("Gondor")
	require.NoError(t, err)
	require.Equal(t, "new", got.Description)
}

func TestUpdateEntityRenameRepointsRelationships(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Rivendell", Type: "City"}))
	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Elrond", Type: "Character"}))
	require.NoError(t, g.CreateRelationship(RelationshipRecord{
		ID: "r1", Source: "Elrond", Type: "RULES", OriginalType: "rules", Target: "Rivendell",
	}))

	require.NoError(t, g.UpdateEntity("Rivendell", EntityUpdate{NewName: "Imladris"}))

	old, err := g.ReadEntity("Rivendell")
	require.NoError(t, err)
	require.Nil(t, old)

	renamed, err := g.ReadEntity("Imladris")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	require.Equal(t, "City", renamed.Type)

	rels, err := g.QueryRelationships(RelationshipFilter{})
	require.NoError(t, err)
	require.Len(t, rels, 1)
	require.Equal(t, "Imladris", rels[0].Target)
}

func TestUpdateEntityPartialFields(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Gondor", Type: "Kingdom", Description: "realm"}))
	require.NoError(t, g.UpdateEntity("Gondor", EntityUpdate{Description: "realm of the west"}))

	got, err := g.ReadEntity("Gondor")
	require.NoError(t, err)
	require.Equal(t, "Kingdom", got.Type)
	require.Equal(t, "realm of the west", got.Description)
}

func TestUpdateEntityMissing(t *testing.T) {
	g := newTestGraph(t)

	err := g.UpdateEntity("nowhere", EntityUpdate{Type: "City"})
	require.Error(t, err)
}

func TestReplaceProperties(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{
		Name: "Gondor", Type: "Kingdom", Props: map[string]any{"ruler": "Denethor"},
	}))
	require.NoError(t, g.ReplaceProperties("Gondor", map[string]any{"ruler": "Aragorn", "era": "Fourth Age"}))

	got, err := g.ReadEntity("Gondor")
	require.NoError(t, err)
	require.Equal(t, "Aragorn", got.Props["ruler"])
	require.Equal(t, "Fourth Age", got.Props["era"])

	// Replace with the empty bag drops everything.
	require.NoError(t, g.ReplaceProperties("Gondor", nil))
	got, err = g.ReadEntity("Gondor")
	require.NoError(t, err)
	require.Empty(t, got.Props)
}

func TestDeleteEntityCascades(t *testing.T) {
	g := newTestGraph(t)

	for _, name := range []string{"Gondor", "Rohan", "Mordor"} {
		require.NoError(t, g.CreateEntity(EntityRecord{Name: name, Type: "Kingdom"}))
	}
	require.NoError(t, g.CreateRelationship(RelationshipRecord{
		ID: "r1", Source: "Rohan", Type: "ALLY_OF", OriginalType: "ally of", Target: "Gondor",
	}))
	require.NoError(t, g.CreateRelationship(RelationshipRecord{
		ID: "r2", Source: "Gondor", Type: "ENEMY_OF", OriginalType: "enemy of", Target: "Mordor",
	}))

	require.NoError(t, g.DeleteEntity("Gondor"))

	got, err := g.ReadEntity("Gondor")
	require.NoError(t, err)
	require.Nil(t, got)

	rels, err := g.QueryRelationships(RelationshipFilter{})
	require.NoError(t, err)
	require.Empty(t, rels)
}

func TestCreateRelationshipInvalidLabel(t *testing.T) {
	g := newTestGraph(t)

	err := g.CreateRelationship(RelationshipRecord{
		ID: "r1", Source: "a", Type: "ally of", Target: "b",
	})
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
}

func TestQueryEntitiesFilters(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Minas Tirith", Type: "City", Description: "white city"}))
	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Minas Morgul", Type: "Fortress", Description: "dead city"}))
	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Edoras", Type: "City", Description: "golden hall"}))

	all, err := g.QueryEntities(EntityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by name.
	require.Equal(t, "Edoras", all[0].Name)

	cities, err := g.QueryEntities(EntityFilter{Type: "City"})
	require.NoError(t, err)
	require.Len(t, cities, 2)

	// Substring matches are case-insensitive.
	minas, err := g.QueryEntities(EntityFilter{NameContains: "minas"})
	require.NoError(t, err)
	require.Len(t, minas, 2)

	both, err := g.QueryEntities(EntityFilter{Type: "City", NameContains: "minas"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, "Minas Tirith", both[0].Name)

	dead, err := g.QueryEntities(EntityFilter{DescriptionContains: "DEAD"})
	require.NoError(t, err)
	require.Len(t, dead, 1)

	none, err := g.QueryEntities(EntityFilter{Type: "Swamp"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestQueryRelationshipsFilters(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Minas Tirith", Type: "City"}))
	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Gondor", Type: "Kingdom"}))
	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Rohan", Type: "Kingdom"}))
	require.NoError(t, g.CreateRelationship(RelationshipRecord{
		ID: "r1", Source: "Minas Tirith", Type: "CAPITAL_OF", OriginalType: "capital of", Target: "Gondor",
	}))
	require.NoError(t, g.CreateRelationship(RelationshipRecord{
		ID: "r2", Source: "Rohan", Type: "ALLY_OF", OriginalType: "ally of", Target: "Gondor",
	}))

	all, err := g.QueryRelationships(RelationshipFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	capitals, err := g.QueryRelationships(RelationshipFilter{Type: "CAPITAL_OF"})
	require.NoError(t, err)
	require.Len(t, capitals, 1)
	require.Equal(t, "capital of", capitals[0].OriginalType)

	fromCities, err := g.QueryRelationships(RelationshipFilter{SourceType: "City"})
	require.NoError(t, err)
	require.Len(t, fromCities, 1)

	toKingdoms, err := g.QueryRelationships(RelationshipFilter{TargetType: "Kingdom"})
	require.NoError(t, err)
	require.Len(t, toKingdoms, 2)

	none, err := g.QueryRelationships(RelationshipFilter{SourceType: "Kingdom", Type: "CAPITAL_OF"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestClear(t *testing.T) {
	g := newTestGraph(t)

	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Gondor", Type: "Kingdom"}))
	require.NoError(t, g.CreateEntity(EntityRecord{Name: "Rohan", Type: "Kingdom"}))
	require.NoError(t, g.CreateRelationship(RelationshipRecord{
		ID: "r1", Source: "Rohan", Type: "ALLY_OF", Target: "Gondor",
	}))

	require.NoError(t, g.Clear())

	entities, err := g.QueryEntities(EntityFilter{})
	require.NoError(t, err)
	require.Empty(t, entities)
	rels, err := g.QueryRelationships(RelationshipFilter{})
	require.NoError(t, err)
	require.Empty(t, rels)
}

func TestValidLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"ALLY_OF", true},
		{"RULES", true},
		{"A1_B2", true},
		{"", false},
		{"ally_of", false},
		{"ALLY OF", false},
		{"ALLY-OF", false},
		{"ALLY_OF; DROP TABLE entities", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ValidLabel(tt.label), "label %q", tt.label)
	}
}

func TestExecuteWriteReturnsNoRows(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Execute(
		`INSERT INTO entities (name, entity_type, description, props) VALUES ($name, $t, $d, $p)`,
		map[string]any{"name": "x", "t": "y", "d": "", "p": "{}"})
	require.NoError(t, err)
	require.Nil(t, rows)

	selected, err := db.Execute(`SELECT name FROM entities`, nil)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	require.Equal(t, "x", asString(selected[0]["name"]))
}
