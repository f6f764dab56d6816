// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"errors"
	"fmt"
)

// ErrSameNode is returned when a relationship's source and target name the
// same entity. Self-loops are rejected; no record is created.
var ErrSameNode = errors.New("source and target are the same entity")

// DuplicateNameError is returned when a create or rename would reuse an
// existing entity name. Entity names are unique across the whole world.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("entity %q already exists", e.Name)
}

// NotFoundError reports a missing entity, property, or endpoint.
type NotFoundError struct {
	Kind string // "entity", "source entity", "target entity", "property"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// CorePropertyError is returned when a property operation targets one of
// the protected core keys. Core properties are changed through
// modify_entity, never through the property commands.
type CorePropertyError struct {
	Key string
}

func (e *CorePropertyError) Error() string {
	return fmt.Sprintf("%q is a core property; use modify_entity to change it", e.Key)
}

// InvalidTypeError reports a relationship type that cannot be normalized
// to a store-level label.
type InvalidTypeError struct {
	Type string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("relationship type %q cannot be used as a label", e.Type)
}
