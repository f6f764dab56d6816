// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jeranaias/worldsmith/internal/store"
)

// =============================================================================
// WORLD DATA IMPORT
// =============================================================================

// importedEntity is one record of a world data file.
type importedEntity struct {
	Name          string                 `json:"name"`
	Type          string                 `json:"type"`
	Description   string                 `json:"description"`
	Relationships []importedRelationship `json:"relationships"`
	Properties    map[string]any         `json:"properties"`
}

type importedRelationship struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// Import reads a world data JSON file into the cache. It does not touch
// the store; call Populate afterwards to mirror the loaded world.
func (w *World) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read world data: %w", err)
	}

	var records []importedEntity
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse world data: %w", err)
	}

	for _, rec := range records {
		e := NewEntity(rec.Name, rec.Type, rec.Description, rec.Properties)
		for _, imported := range rec.Relationships {
			rel, err := NewRelationship(rec.Name, imported.Type, imported.Target, nil)
			if err != nil {
				return fmt.Errorf("entity %q: %w", rec.Name, err)
			}
			e.rels = append(e.rels, rel)
		}
		w.entities[e.Name] = e
	}

	log.Printf("world: imported %d entities from %s", len(records), path)
	return nil
}

// Populate bulk-mirrors the cached world into the store: entities are
// merged by name, then relationships created. Relationships whose target
// never appeared in the data file are skipped with a warning rather than
// failing the whole import.
func (w *World) Populate() error {
	for _, e := range w.entities {
		if err := w.store.MergeEntity(store.EntityRecord{
			Name:        e.Name,
			Type:        e.Type,
			Description: e.Description,
			Props:       e.DynamicProperties(),
		}); err != nil {
			return err
		}
	}

	count := 0
	for _, e := range w.entities {
		for _, rel := range e.rels {
			if _, ok := w.entities[rel.Target]; !ok {
				log.Printf("world: skipping relationship %s -> %s: unknown target", rel.Source, rel.Target)
				continue
			}
			if err := w.store.CreateRelationship(store.RelationshipRecord{
				ID:           rel.ID,
				Source:       rel.Source,
				Type:         rel.Canonical,
				OriginalType: rel.Type,
				Target:       rel.Target,
				Props:        rel.Properties(),
			}); err != nil {
				return err
			}
			count++
		}
	}

	log.Printf("world: populated store with %d entities, %d relationships", len(w.entities), count)
	return nil
}
