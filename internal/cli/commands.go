// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/worldsmith/internal/commands"
	"github.com/jeranaias/worldsmith/internal/world"
)

// =============================================================================
// COMMAND REGISTRATION
// =============================================================================

// RegisterWorldCommands wires the world model's operations into the
// registry. defaultDepth is the graph view depth used when --depth is
// not given.
func RegisterWorldCommands(registry *commands.Registry, w *world.World, defaultDepth int) {
	registry.Register(&commands.Command{
		Name:        "list_entities",
		Description: "List entities, optionally filtered",
		Aliases:     []string{"le"},
		Args: []commands.ArgDef{
			{Name: "type", Help: "Filter by entity type", Role: commands.RoleEntityType},
			{Name: "name-contains", Help: "Filter by name substring"},
			{Name: "description-contains", Help: "Filter by description substring"},
		},
		Handler: func(args map[string]string) (any, error) {
			return w.ListEntities(args["type"], args["name-contains"], args["description-contains"])
		},
	})

	registry.Register(&commands.Command{
		Name:        "list_relationships",
		Description: "List relationships, optionally filtered",
		Aliases:     []string{"lr"},
		Args: []commands.ArgDef{
			{Name: "source-type", Help: "Filter by source entity type", Role: commands.RoleEntityType},
			{Name: "type", Help: "Filter by relationship type", Role: commands.RoleRelationship},
			{Name: "target-type", Help: "Filter by target entity type", Role: commands.RoleEntityType},
		},
		Handler: func(args map[string]string) (any, error) {
			return w.ListRelationships(args["source-type"], args["type"], args["target-type"])
		},
	})

	registry.Register(&commands.Command{
		Name:        "add_entity",
		Description: "Create a new entity",
		Aliases:     []string{"ae"},
		Args: []commands.ArgDef{
			{Name: "name", Help: "Entity name", Required: true},
			{Name: "type", Help: "Entity type", Role: commands.RoleEntityType, Required: true},
			{Name: "description", Help: "Free-form description"},
			{Name: "properties", Help: "Extra properties as key=value,key2=value2"},
		},
		Handler: func(args map[string]string) (any, error) {
			props, err := commands.ParseProperties(args["properties"])
			if err != nil {
				return nil, err
			}
			e, err := w.AddEntity(args["type"], args["name"], args["description"], props)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Added entity %q (%s)", e.Name, e.Type), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "modify_entity",
		Description: "Change an entity's name, type, or description",
		Aliases:     []string{"me"},
		Args: []commands.ArgDef{
			{Name: "name", Help: "Entity to modify", Role: commands.RoleEntityName, Required: true},
			{Name: "new-name", Help: "New entity name"},
			{Name: "type", Help: "New entity type", Role: commands.RoleEntityType},
			{Name: "description", Help: "New description"},
		},
		Handler: func(args map[string]string) (any, error) {
			e, err := w.ModifyEntity(args["name"], args["new-name"], args["type"], args["description"])
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Modified entity %q", e.Name), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "delete_entity",
		Description: "Delete an entity and its relationships",
		Aliases:     []string{"de"},
		Args: []commands.ArgDef{
			{Name: "name", Help: "Entity to delete", Role: commands.RoleEntityName, Required: true},
		},
		Handler: func(args map[string]string) (any, error) {
			if err := w.DeleteEntity(args["name"]); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Deleted entity %q", args["name"]), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "add_relationship",
		Description: "Create a directed relationship between two entities",
		Aliases:     []string{"ar"},
		Args: []commands.ArgDef{
			{Name: "source", Help: "Source entity", Role: commands.RoleEntityName, Required: true},
			{Name: "type", Help: "Relationship type", Role: commands.RoleRelationship, Required: true},
			{Name: "target", Help: "Target entity", Role: commands.RoleEntityName, Required: true},
			{Name: "properties", Help: "Extra properties as key=value,key2=value2"},
		},
		Handler: func(args map[string]string) (any, error) {
			props, err := commands.ParseProperties(args["properties"])
			if err != nil {
				return nil, err
			}
			rel, err := w.AddRelationship(args["source"], args["type"], args["target"], props)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Added relationship %s -[%s]-> %s", rel.Source, rel.Canonical, rel.Target), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "add_property",
		Description: "Add a property to an entity",
		Aliases:     []string{"ap"},
		Args: []commands.ArgDef{
			{Name: "entity", Help: "Entity to modify", Role: commands.RoleEntityName, Required: true},
			{Name: "name", Help: "Property name", Required: true},
			{Name: "value", Help: "Property value", Required: true},
		},
		Handler: func(args map[string]string) (any, error) {
			if err := w.AddProperty(args["entity"], args["name"], args["value"]); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Set %s.%s", args["entity"], args["name"]), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "modify_property",
		Description: "Change an existing property on an entity",
		Aliases:     []string{"mp"},
		Args: []commands.ArgDef{
			{Name: "entity", Help: "Entity to modify", Role: commands.RoleEntityName, Required: true},
			{Name: "name", Help: "Property name", Required: true},
			{Name: "value", Help: "New property value", Required: true},
		},
		Handler: func(args map[string]string) (any, error) {
			if err := w.ModifyProperty(args["entity"], args["name"], args["value"]); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Set %s.%s", args["entity"], args["name"]), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "delete_property",
		Description: "Remove a property from an entity",
		Aliases:     []string{"dp"},
		Args: []commands.ArgDef{
			{Name: "entity", Help: "Entity to modify", Role: commands.RoleEntityName, Required: true},
			{Name: "name", Help: "Property name", Required: true},
		},
		Handler: func(args map[string]string) (any, error) {
			if err := w.DeleteProperty(args["entity"], args["name"]); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Deleted %s.%s", args["entity"], args["name"]), nil
		},
	})

	registry.Register(&commands.Command{
		Name:        "view_entity",
		Description: "Show an entity's details and properties",
		Aliases:     []string{"ve"},
		Args: []commands.ArgDef{
			{Name: "name", Help: "Entity to view", Role: commands.RoleEntityName, Required: true},
		},
		Handler: func(args map[string]string) (any, error) {
			return w.EntityDetails(args["name"])
		},
	})

	registry.Register(&commands.Command{
		Name:        "view_graph",
		Description: "Show an entity's relationship tree",
		Aliases:     []string{"vg"},
		Args: []commands.ArgDef{
			{Name: "name", Help: "Root entity", Role: commands.RoleEntityName, Required: true},
			{Name: "depth", Help: fmt.Sprintf("Traversal depth, max %d", world.MaxGraphDepth)},
		},
		Handler: func(args map[string]string) (any, error) {
			depth := defaultDepth
			if raw, ok := args["depth"]; ok {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("invalid depth %q", raw)
				}
				depth = n
			}
			return w.EntityGraph(args["name"], depth)
		},
	})
}
