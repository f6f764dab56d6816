// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/worldsmith/internal/store"
)

// =============================================================================
// CORE PROPERTIES
// =============================================================================

// Core property keys. These exist on every entity and can never be
// deleted through the property operations.
const (
	CoreName        = "name"
	CoreType        = "entity_type"
	CoreDescription = "description"
)

// IsCoreProperty reports whether key names a protected core property.
func IsCoreProperty(key string) bool {
	return key == CoreName || key == CoreType || key == CoreDescription
}

// =============================================================================
// ENTITY
// =============================================================================

// Entity is a named, typed node in the world graph. Core properties live
// in fixed fields; everything else goes into the dynamic property bag.
type Entity struct {
	Name        string
	Type        string
	Description string

	props map[string]any
	rels  []*Relationship
}

// NewEntity builds an entity with the given core fields and an optional
// set of dynamic properties. Core keys in props are ignored; the fixed
// fields win.
func NewEntity(name, entityType, description string, props map[string]any) *Entity {
	e := &Entity{
		Name:        name,
		Type:        entityType,
		Description: description,
		props:       make(map[string]any),
	}
	for key, value := range props {
		if !IsCoreProperty(key) {
			e.props[key] = value
		}
	}
	return e
}

// Property returns the value of a core or dynamic property.
func (e *Entity) Property(key string) (any, bool) {
	switch key {
	case CoreName:
		return e.Name, true
	case CoreType:
		return e.Type, true
	case CoreDescription:
		return e.Description, true
	}
	v, ok := e.props[key]
	return v, ok
}

// SetProperty sets a dynamic property. Core keys are rejected.
func (e *Entity) SetProperty(key string, value any) error {
	if IsCoreProperty(key) {
		return &CorePropertyError{Key: key}
	}
	e.props[key] = value
	return nil
}

// DeleteProperty removes a dynamic property. Core keys are rejected and
// unknown keys report not found.
func (e *Entity) DeleteProperty(key string) error {
	if IsCoreProperty(key) {
		return &CorePropertyError{Key: key}
	}
	if _, ok := e.props[key]; !ok {
		return &NotFoundError{Kind: "property", Name: key}
	}
	delete(e.props, key)
	return nil
}

// DynamicProperties returns a copy of the dynamic property bag.
func (e *Entity) DynamicProperties() map[string]any {
	out := make(map[string]any, len(e.props))
	for key, value := range e.props {
		out[key] = value
	}
	return out
}

// Relationships returns the entity's outgoing relationships.
func (e *Entity) Relationships() []*Relationship {
	return e.rels
}

// =============================================================================
// RELATIONSHIP
// =============================================================================

// Relationship is a directed, typed edge between two entities. Type keeps
// the human-typed form; Canonical is the normalized store-level label.
type Relationship struct {
	ID        string
	Source    string
	Type      string
	Canonical string
	Target    string

	props map[string]any
}

// NewRelationship builds a relationship with a fresh synthetic id. The
// type must normalize to a valid label.
func NewRelationship(source, relType, target string, props map[string]any) (*Relationship, error) {
	canonical, err := CanonicalType(relType)
	if err != nil {
		return nil, err
	}
	r := &Relationship{
		ID:        uuid.NewString(),
		Source:    source,
		Type:      relType,
		Canonical: canonical,
		Target:    target,
		props:     make(map[string]any),
	}
	for key, value := range props {
		r.props[key] = value
	}
	return r, nil
}

// Properties returns a copy of the relationship's property bag.
func (r *Relationship) Properties() map[string]any {
	out := make(map[string]any, len(r.props))
	for key, value := range r.props {
		out[key] = value
	}
	return out
}

// CanonicalType normalizes a relationship type to its store-level label:
// uppercase, spaces replaced by underscores. Types that still contain
// characters outside the label allow-list are rejected.
func CanonicalType(relType string) (string, error) {
	canonical := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(relType), " ", "_"))
	if !store.ValidLabel(canonical) {
		return "", &InvalidTypeError{Type: relType}
	}
	return canonical, nil
}
