// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"fmt"
	"regexp"
)

// =============================================================================
// QUERIER BOUNDARY
// =============================================================================

// Row is a single result row keyed by column name.
type Row map[string]any

// Querier is the only interface the core requires from the storage
// collaborator. Execute runs a parameterized query template and returns
// the resulting rows. Zero rows returned is a valid result; failure is
// reported through the error and nothing else.
type Querier interface {
	Execute(query string, params map[string]any) ([]Row, error)
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// EntityRecord is the stored form of an entity.
type EntityRecord struct {
	Name        string
	Type        string
	Description string

	// Props holds the dynamic (non-core) properties.
	Props map[string]any
}

// RelationshipRecord is the stored form of a directed, typed edge.
type RelationshipRecord struct {
	ID     string
	Source string

	// Type is the canonical label (uppercase, underscores).
	Type string

	// OriginalType preserves the human-typed form.
	OriginalType string

	Target string
	Props  map[string]any
}

// EntityUpdate carries optional core-field changes. Empty fields are left
// unchanged.
type EntityUpdate struct {
	NewName     string
	Type        string
	Description string
}

// EntityFilter selects entities. All provided filters must match (AND);
// name and description are case-insensitive substring matches, type is
// exact.
type EntityFilter struct {
	Type                string
	NameContains        string
	DescriptionContains string
}

// RelationshipFilter selects relationships by endpoint entity types and
// canonical relationship type.
type RelationshipFilter struct {
	SourceType string
	Type       string
	TargetType string
}

// =============================================================================
// LABEL VALIDATION
// =============================================================================

// labelPattern is the allow-list for store-level relationship labels.
// Canonical types are validated against it before any query touches them,
// so a label can never smuggle query syntax.
var labelPattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// ValidLabel reports whether s is an acceptable store-level label.
func ValidLabel(s string) bool {
	return labelPattern.MatchString(s)
}

// =============================================================================
// ERRORS
// =============================================================================

// Error wraps any failure from the storage collaborator, recording the
// operation that failed. Use errors.As to detect store failures.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
