// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"log"
	"sort"

	"github.com/jeranaias/worldsmith/internal/store"
)

// =============================================================================
// STORE BOUNDARY
// =============================================================================

// Store is what the world model requires from the persistence layer.
// *store.Graph satisfies it.
type Store interface {
	CreateEntity(rec store.EntityRecord) error
	MergeEntity(rec store.EntityRecord) error
	UpdateEntity(name string, upd store.EntityUpdate) error
	ReplaceProperties(name string, props map[string]any) error
	DeleteEntity(name string) error
	CreateRelationship(rec store.RelationshipRecord) error
	QueryEntities(f store.EntityFilter) ([]store.EntityRecord, error)
	QueryRelationships(f store.RelationshipFilter) ([]store.RelationshipRecord, error)
	Clear() error
}

// =============================================================================
// WORLD
// =============================================================================

// World owns every Entity and Relationship instance. The cache is the
// in-session source of truth for reads; all writes go through the store
// first.
type World struct {
	store    Store
	entities map[string]*Entity

	// maxDepth is the effective graph traversal clamp, never above
	// MaxGraphDepth.
	maxDepth int
}

// New creates an empty world over the given store.
func New(s Store) *World {
	return &World{
		store:    s,
		entities: make(map[string]*Entity),
		maxDepth: MaxGraphDepth,
	}
}

// Load hydrates the cache from the store. Called once at startup when no
// fresh import is requested.
func (w *World) Load() error {
	records, err := w.store.QueryEntities(store.EntityFilter{})
	if err != nil {
		return err
	}
	for _, rec := range records {
		w.entities[rec.Name] = NewEntity(rec.Name, rec.Type, rec.Description, rec.Props)
	}

	rels, err := w.store.QueryRelationships(store.RelationshipFilter{})
	if err != nil {
		return err
	}
	for _, rec := range rels {
		source, ok := w.entities[rec.Source]
		if !ok {
			log.Printf("world: skipping relationship %s: unknown source %q", rec.ID, rec.Source)
			continue
		}
		source.rels = append(source.rels, &Relationship{
			ID:        rec.ID,
			Source:    rec.Source,
			Type:      rec.OriginalType,
			Canonical: rec.Type,
			Target:    rec.Target,
			props:     rec.Props,
		})
	}
	log.Printf("world: loaded %d entities, %d relationships", len(records), len(rels))
	return nil
}

// Entity returns a cached entity by name.
func (w *World) Entity(name string) (*Entity, bool) {
	e, ok := w.entities[name]
	return e, ok
}

// Len returns the number of entities in the world.
func (w *World) Len() int {
	return len(w.entities)
}

// =============================================================================
// ENTITY CRUD
// =============================================================================

// AddEntity creates a new entity. Duplicate names fail before anything is
// written; a store failure leaves the cache unchanged.
func (w *World) AddEntity(entityType, name, description string, props map[string]any) (*Entity, error) {
	if _, exists := w.entities[name]; exists {
		return nil, &DuplicateNameError{Name: name}
	}

	e := NewEntity(name, entityType, description, props)
	if err := w.store.CreateEntity(store.EntityRecord{
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
		Props:       e.DynamicProperties(),
	}); err != nil {
		return nil, err
	}

	w.entities[name] = e
	log.Printf("world: added entity %q (%s)", name, entityType)
	return e, nil
}

// ModifyEntity updates core fields of an entity. Empty arguments leave the
// corresponding field unchanged. A rename re-keys the cache and re-points
// every relationship that references the old name.
func (w *World) ModifyEntity(name, newName, entityType, description string) (*Entity, error) {
	e, ok := w.entities[name]
	if !ok {
		return nil, &NotFoundError{Kind: "entity", Name: name}
	}
	if newName != "" && newName != name {
		if _, exists := w.entities[newName]; exists {
			return nil, &DuplicateNameError{Name: newName}
		}
	}

	if err := w.store.UpdateEntity(name, store.EntityUpdate{
		NewName:     newName,
		Type:        entityType,
		Description: description,
	}); err != nil {
		return nil, err
	}

	if entityType != "" {
		e.Type = entityType
	}
	if description != "" {
		e.Description = description
	}
	if newName != "" && newName != name {
		e.Name = newName
		delete(w.entities, name)
		w.entities[newName] = e
		w.repointRelationships(name, newName)
	}
	return e, nil
}

// repointRelationships rewrites cached endpoints after a rename.
func (w *World) repointRelationships(oldName, newName string) {
	for _, entity := range w.entities {
		for _, rel := range entity.rels {
			if rel.Source == oldName {
				rel.Source = newName
			}
			if rel.Target == oldName {
				rel.Target = newName
			}
		}
	}
}

// DeleteEntity removes an entity from store and cache. Relationships that
// reference it as source or target are deleted with it, in both tiers.
func (w *World) DeleteEntity(name string) error {
	if _, ok := w.entities[name]; !ok {
		return &NotFoundError{Kind: "entity", Name: name}
	}

	if err := w.store.DeleteEntity(name); err != nil {
		return err
	}

	delete(w.entities, name)
	for _, entity := range w.entities {
		kept := entity.rels[:0]
		for _, rel := range entity.rels {
			if rel.Target != name && rel.Source != name {
				kept = append(kept, rel)
			}
		}
		entity.rels = kept
	}
	log.Printf("world: deleted entity %q", name)
	return nil
}

// =============================================================================
// RELATIONSHIPS
// =============================================================================

// AddRelationship creates a directed, typed edge between two existing
// entities. Self-loops are rejected.
func (w *World) AddRelationship(source, relType, target string, props map[string]any) (*Relationship, error) {
	if source == target {
		return nil, ErrSameNode
	}
	sourceEntity, ok := w.entities[source]
	if !ok {
		return nil, &NotFoundError{Kind: "source entity", Name: source}
	}
	if _, ok := w.entities[target]; !ok {
		return nil, &NotFoundError{Kind: "target entity", Name: target}
	}

	rel, err := NewRelationship(source, relType, target, props)
	if err != nil {
		return nil, err
	}

	if err := w.store.CreateRelationship(store.RelationshipRecord{
		ID:           rel.ID,
		Source:       rel.Source,
		Type:         rel.Canonical,
		OriginalType: rel.Type,
		Target:       rel.Target,
		Props:        rel.Properties(),
	}); err != nil {
		return nil, err
	}

	sourceEntity.rels = append(sourceEntity.rels, rel)
	log.Printf("world: added relationship %s -[%s]-> %s", source, rel.Canonical, target)
	return rel, nil
}

// =============================================================================
// PROPERTY OPERATIONS
// =============================================================================

// AddProperty adds a dynamic property to an entity.
func (w *World) AddProperty(name, key string, value any) error {
	e, ok := w.entities[name]
	if !ok {
		return &NotFoundError{Kind: "entity", Name: name}
	}
	if IsCoreProperty(key) {
		return &CorePropertyError{Key: key}
	}

	updated := e.DynamicProperties()
	updated[key] = value
	if err := w.store.ReplaceProperties(name, updated); err != nil {
		return err
	}
	return e.SetProperty(key, value)
}

// ModifyProperty changes an existing dynamic property.
func (w *World) ModifyProperty(name, key string, value any) error {
	e, ok := w.entities[name]
	if !ok {
		return &NotFoundError{Kind: "entity", Name: name}
	}
	if IsCoreProperty(key) {
		return &CorePropertyError{Key: key}
	}
	if _, ok := e.Property(key); !ok {
		return &NotFoundError{Kind: "property", Name: key}
	}

	updated := e.DynamicProperties()
	updated[key] = value
	if err := w.store.ReplaceProperties(name, updated); err != nil {
		return err
	}
	return e.SetProperty(key, value)
}

// DeleteProperty removes a dynamic property. Core properties are
// protected.
func (w *World) DeleteProperty(name, key string) error {
	e, ok := w.entities[name]
	if !ok {
		return &NotFoundError{Kind: "entity", Name: name}
	}
	if IsCoreProperty(key) {
		return &CorePropertyError{Key: key}
	}
	if _, ok := e.Property(key); !ok {
		return &NotFoundError{Kind: "property", Name: key}
	}

	updated := e.DynamicProperties()
	delete(updated, key)
	if err := w.store.ReplaceProperties(name, updated); err != nil {
		return err
	}
	return e.DeleteProperty(key)
}

// =============================================================================
// QUERIES
// =============================================================================

// EntityDetail is the display form of an entity: core properties split
// from the dynamic bag.
type EntityDetail struct {
	Name        string
	Type        string
	Description string
	Dynamic     map[string]any
}

// RelationshipSummary is one row of a relationship listing.
type RelationshipSummary struct {
	Source string
	Type   string // canonical label
	Target string
}

// EntityDetails returns the display form of one cached entity.
func (w *World) EntityDetails(name string) (EntityDetail, error) {
	e, ok := w.entities[name]
	if !ok {
		return EntityDetail{}, &NotFoundError{Kind: "entity", Name: name}
	}
	return EntityDetail{
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
		Dynamic:     e.DynamicProperties(),
	}, nil
}

// ListEntities queries the store for entities matching all provided
// filters (AND semantics; substring matches are case-insensitive).
func (w *World) ListEntities(entityType, nameContains, descriptionContains string) ([]EntityDetail, error) {
	records, err := w.store.QueryEntities(store.EntityFilter{
		Type:                entityType,
		NameContains:        nameContains,
		DescriptionContains: descriptionContains,
	})
	if err != nil {
		return nil, err
	}
	out := make([]EntityDetail, 0, len(records))
	for _, rec := range records {
		out = append(out, EntityDetail{
			Name:        rec.Name,
			Type:        rec.Type,
			Description: rec.Description,
			Dynamic:     rec.Props,
		})
	}
	return out, nil
}

// ListRelationships queries the store for relationships. The type filter
// accepts the human-typed form and is canonicalized before matching.
func (w *World) ListRelationships(sourceType, relType, targetType string) ([]RelationshipSummary, error) {
	canonical := ""
	if relType != "" {
		var err error
		canonical, err = CanonicalType(relType)
		if err != nil {
			return nil, err
		}
	}
	records, err := w.store.QueryRelationships(store.RelationshipFilter{
		SourceType: sourceType,
		Type:       canonical,
		TargetType: targetType,
	})
	if err != nil {
		return nil, err
	}
	out := make([]RelationshipSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, RelationshipSummary{
			Source: rec.Source,
			Type:   rec.Type,
			Target: rec.Target,
		})
	}
	return out, nil
}

// Clear empties both tiers.
func (w *World) Clear() error {
	if err := w.store.Clear(); err != nil {
		return err
	}
	w.entities = make(map[string]*Entity)
	return nil
}

// =============================================================================
// CATALOGUES
// =============================================================================

// EntityNames returns every entity name, sorted. Computed from the cache
// so just-created entities complete immediately.
func (w *World) EntityNames() []string {
	names := make([]string, 0, len(w.entities))
	for name := range w.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityTypes returns the distinct entity types in use, sorted.
func (w *World) EntityTypes() []string {
	seen := make(map[string]bool)
	for _, e := range w.entities {
		if e.Type != "" {
			seen[e.Type] = true
		}
	}
	return sortedKeys(seen)
}

// RelationshipTypes returns the distinct relationship types in use, in
// their original human-typed form, sorted.
func (w *World) RelationshipTypes() []string {
	seen := make(map[string]bool)
	for _, e := range w.entities {
		for _, rel := range e.rels {
			if rel.Type != "" {
				seen[rel.Type] = true
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
