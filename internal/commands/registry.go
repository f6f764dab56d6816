// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Handler executes a command with its parsed named arguments and returns
// a displayable result.
type Handler func(args map[string]string) (any, error)

// Command is one registered shell command.
type Command struct {
	// Name is the canonical command name (e.g., "add_entity")
	Name string

	// Description is shown in help and completion
	Description string

	// Args is the argument schema, in declaration order. Order drives
	// usage rendering and argument-name completion.
	Args []ArgDef

	// Aliases are alternative names (e.g., "ae")
	Aliases []string

	// Handler executes the command
	Handler Handler
}

// Arg returns the definition of a named argument, or nil.
func (c *Command) Arg(name string) *ArgDef {
	for i := range c.Args {
		if c.Args[i].Name == name {
			return &c.Args[i]
		}
	}
	return nil
}

// ArgDef defines one named argument.
type ArgDef struct {
	// Name of the argument (typed as --name)
	Name string

	// Help text for usage rendering
	Help string

	// Role determines value completion behavior
	Role ArgRole

	// Required arguments must be provided on the line
	Required bool
}

// ArgRole indicates what kind of value completion an argument gets.
type ArgRole int

const (
	RoleNone         ArgRole = iota // Free-form value, no completion
	RoleEntityName                  // An existing entity name
	RoleEntityType                  // An entity type in use
	RoleRelationship                // A relationship type in use
)

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the known commands. Aliases live in their own table and
// are never duplicated into the command table, so iterating all commands
// never double-counts. Registration order is preserved for help and
// completion output.
//
// Collisions follow a last-write-wins policy for both names and aliases;
// at resolve time a direct name always beats an alias of the same
// spelling.
type Registry struct {
	commands   map[string]*Command
	aliases    map[string]string // alias -> canonical name
	order      []string
	aliasOrder []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command and its aliases. Re-registering a name keeps
// its original position in iteration order.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd

	for _, alias := range cmd.Aliases {
		if _, exists := r.aliases[alias]; !exists {
			r.aliasOrder = append(r.aliasOrder, alias)
		}
		r.aliases[alias] = cmd.Name
	}
}

// Resolve returns the command for a name or alias, or nil.
func (r *Registry) Resolve(token string) *Command {
	if cmd, ok := r.commands[token]; ok {
		return cmd
	}
	if name, ok := r.aliases[token]; ok {
		return r.commands[name]
	}
	return nil
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Names returns the command names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Aliases returns the alias names in registration order.
func (r *Registry) Aliases() []string {
	out := make([]string, len(r.aliasOrder))
	copy(out, r.aliasOrder)
	return out
}
