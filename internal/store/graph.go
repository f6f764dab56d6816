// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// =============================================================================
// QUERY TEMPLATES
// =============================================================================

const (
	queryCreateEntity = `
		INSERT INTO entities (name, entity_type, description, props)
		VALUES ($name, $entity_type, $description, $props)`

	queryMergeEntity = `
		INSERT INTO entities (name, entity_type, description, props)
		VALUES ($name, $entity_type, $description, $props)
		ON CONFLICT(name) DO UPDATE SET
			entity_type = excluded.entity_type,
			description = excluded.description,
			props = excluded.props`

	queryReadEntity = `
		SELECT name, entity_type, description, props
		FROM entities
		WHERE name = $name`

	queryReplaceProps = `
		UPDATE entities SET props = $props WHERE name = $name`

	queryDeleteEntity = `
		DELETE FROM entities WHERE name = $name`

	queryDeleteRelationshipsOf = `
		DELETE FROM relationships WHERE source = $name OR target = $name`

	queryCreateRelationship = `
		INSERT INTO relationships (id, source, rel_type, original_type, target, props)
		VALUES ($id, $source, $rel_type, $original_type, $target, $props)`

	queryEntities = `
		SELECT name, entity_type, description, props
		FROM entities
		WHERE ($entity_type = '' OR entity_type = $entity_type)
		  AND ($name = '' OR instr(lower(name), lower($name)) > 0)
		  AND ($description = '' OR instr(lower(description), lower($description)) > 0)
		ORDER BY name`

	queryRelationships = `
		SELECT r.id, r.source, r.rel_type, r.original_type, r.target, r.props
		FROM relationships r
		JOIN entities a ON a.name = r.source
		JOIN entities b ON b.name = r.target
		WHERE ($source_type = '' OR a.entity_type = $source_type)
		  AND ($rel_type = '' OR r.rel_type = $rel_type)
		  AND ($target_type = '' OR b.entity_type = $target_type)
		ORDER BY r.source, r.rel_type, r.target`

	queryClearRelationships = `DELETE FROM relationships`
	queryClearEntities      = `DELETE FROM entities`
)

// =============================================================================
// GRAPH OPERATIONS
// =============================================================================

// Graph implements the entity/relationship operations on top of the
// Querier boundary. It owns the query templates and the JSON encoding of
// property bags; it holds no state of its own.
type Graph struct {
	q Querier
}

// NewGraph creates a graph operations layer over q.
func NewGraph(q Querier) *Graph {
	return &Graph{q: q}
}

// CreateEntity inserts a new entity. The caller is responsible for
// duplicate detection; a name collision surfaces as a store failure.
func (g *Graph) CreateEntity(rec EntityRecord) error {
	props, err := encodeProps(rec.Props)
	if err != nil {
		return &Error{Op: "create entity", Err: err}
	}
	if _, err := g.q.Execute(queryCreateEntity, map[string]any{
		"name":        rec.Name,
		"entity_type": rec.Type,
		"description": rec.Description,
		"props":       props,
	}); err != nil {
		return &Error{Op: "create entity", Err: err}
	}
	return nil
}

// MergeEntity inserts or fully overwrites an entity by name. Used by bulk
// import, mirroring a MERGE-style upsert.
func (g *Graph) MergeEntity(rec EntityRecord) error {
	props, err := encodeProps(rec.Props)
	if err != nil {
		return &Error{Op: "merge entity", Err: err}
	}
	if _, err := g.q.Execute(queryMergeEntity, map[string]any{
		"name":        rec.Name,
		"entity_type": rec.Type,
		"description": rec.Description,
		"props":       props,
	}); err != nil {
		return &Error{Op: "merge entity", Err: err}
	}
	return nil
}

// ReadEntity fetches one entity by name. Returns nil (and no error) when
// the entity does not exist.
func (g *Graph) ReadEntity(name string) (*EntityRecord, error) {
	rows, err := g.q.Execute(queryReadEntity, map[string]any{"name": name})
	if err != nil {
		return nil, &Error{Op: "read entity", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec, err := scanEntity(rows[0])
	if err != nil {
		return nil, &Error{Op: "read entity", Err: err}
	}
	return &rec, nil
}

// UpdateEntity applies core-field changes to an entity. A rename also
// re-points relationships that reference the old name, keeping both tables
// consistent.
func (g *Graph) UpdateEntity(name string, upd EntityUpdate) error {
	existing, err := g.ReadEntity(name)
	if err != nil {
		return err
	}
	if existing == nil {
		return &Error{Op: "update entity", Err: errors.New("no such entity: " + name)}
	}

	newName := existing.Name
	if upd.NewName != "" {
		newName = upd.NewName
	}
	entityType := existing.Type
	if upd.Type != "" {
		entityType = upd.Type
	}
	description := existing.Description
	if upd.Description != "" {
		description = upd.Description
	}

	if _, err := g.q.Execute(`
		UPDATE entities
		SET name = $new_name, entity_type = $entity_type, description = $description
		WHERE name = $name`,
		map[string]any{
			"name":        name,
			"new_name":    newName,
			"entity_type": entityType,
			"description": description,
		}); err != nil {
		return &Error{Op: "update entity", Err: err}
	}

	if newName != name {
		if _, err := g.q.Execute(
			`UPDATE relationships SET source = $new WHERE source = $old`,
			map[string]any{"new": newName, "old": name}); err != nil {
			return &Error{Op: "update entity", Err: err}
		}
		if _, err := g.q.Execute(
			`UPDATE relationships SET target = $new WHERE target = $old`,
			map[string]any{"new": newName, "old": name}); err != nil {
			return &Error{Op: "update entity", Err: err}
		}
	}
	return nil
}

// ReplaceProperties overwrites the dynamic property bag of an entity.
func (g *Graph) ReplaceProperties(name string, props map[string]any) error {
	encoded, err := encodeProps(props)
	if err != nil {
		return &Error{Op: "replace properties", Err: err}
	}
	if _, err := g.q.Execute(queryReplaceProps, map[string]any{
		"name":  name,
		"props": encoded,
	}); err != nil {
		return &Error{Op: "replace properties", Err: err}
	}
	return nil
}

// DeleteEntity removes an entity and every relationship referencing it as
// source or target.
func (g *Graph) DeleteEntity(name string) error {
	if _, err := g.q.Execute(queryDeleteRelationshipsOf, map[string]any{"name": name}); err != nil {
		return &Error{Op: "delete entity", Err: err}
	}
	if _, err := g.q.Execute(queryDeleteEntity, map[string]any{"name": name}); err != nil {
		return &Error{Op: "delete entity", Err: err}
	}
	return nil
}

// CreateRelationship inserts a directed, typed edge. The canonical type is
// checked against the label allow-list before the query runs.
func (g *Graph) CreateRelationship(rec RelationshipRecord) error {
	if !ValidLabel(rec.Type) {
		return &Error{Op: "create relationship", Err: fmt.Errorf("invalid label %q", rec.Type)}
	}
	props, err := encodeProps(rec.Props)
	if err != nil {
		return &Error{Op: "create relationship", Err: err}
	}
	if _, err := g.q.Execute(queryCreateRelationship, map[string]any{
		"id":            rec.ID,
		"source":        rec.Source,
		"rel_type":      rec.Type,
		"original_type": rec.OriginalType,
		"target":        rec.Target,
		"props":         props,
	}); err != nil {
		return &Error{Op: "create relationship", Err: err}
	}
	return nil
}

// QueryEntities returns entities matching all provided filters.
func (g *Graph) QueryEntities(f EntityFilter) ([]EntityRecord, error) {
	rows, err := g.q.Execute(queryEntities, map[string]any{
		"entity_type": f.Type,
		"name":        f.NameContains,
		"description": f.DescriptionContains,
	})
	if err != nil {
		return nil, &Error{Op: "query entities", Err: err}
	}
	out := make([]EntityRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := scanEntity(row)
		if err != nil {
			return nil, &Error{Op: "query entities", Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// QueryRelationships returns relationships matching all provided filters.
// The type filter compares against the canonical label.
func (g *Graph) QueryRelationships(f RelationshipFilter) ([]RelationshipRecord, error) {
	rows, err := g.q.Execute(queryRelationships, map[string]any{
		"source_type": f.SourceType,
		"rel_type":    f.Type,
		"target_type": f.TargetType,
	})
	if err != nil {
		return nil, &Error{Op: "query relationships", Err: err}
	}
	out := make([]RelationshipRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := scanRelationship(row)
		if err != nil {
			return nil, &Error{Op: "query relationships", Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Clear removes every entity and relationship from the store.
func (g *Graph) Clear() error {
	if _, err := g.q.Execute(queryClearRelationships, nil); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	if _, err := g.q.Execute(queryClearEntities, nil); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	log.Printf("store: graph cleared")
	return nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

func scanEntity(row Row) (EntityRecord, error) {
	props, err := decodeProps(row["props"])
	if err != nil {
		return EntityRecord{}, err
	}
	return EntityRecord{
		Name:        asString(row["name"]),
		Type:        asString(row["entity_type"]),
		Description: asString(row["description"]),
		Props:       props,
	}, nil
}

func scanRelationship(row Row) (RelationshipRecord, error) {
	props, err := decodeProps(row["props"])
	if err != nil {
		return RelationshipRecord{}, err
	}
	return RelationshipRecord{
		ID:           asString(row["id"]),
		Source:       asString(row["source"]),
		Type:         asString(row["rel_type"]),
		OriginalType: asString(row["original_type"]),
		Target:       asString(row["target"]),
		Props:        props,
	}, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}

func encodeProps(props map[string]any) (string, error) {
	if len(props) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("encode props: %w", err)
	}
	return string(data), nil
}

func decodeProps(v any) (map[string]any, error) {
	raw := asString(v)
	if raw == "" || raw == "{}" {
		return map[string]any{}, nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, fmt.Errorf("decode props: %w", err)
	}
	return props, nil
}
