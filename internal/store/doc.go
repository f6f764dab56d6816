// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store mirrors the world graph into a persistent database.
//
// The core only ever talks to the database through the narrow Querier
// boundary: a single Execute(query, params) call over parameterized query
// templates. Graph layers the entity/relationship operations on top of
// that boundary, and SQLite provides the concrete implementation.
//
// # Key Types
//
//   - Querier: the execute/query boundary (zero rows is not an error)
//   - Graph: entity and relationship query templates
//   - SQLite: pure-Go SQLite implementation of Querier
//
// Relationship type strings are stored twice: the canonical form
// (uppercase, underscores) acts as the store-level label and is validated
// against an allow-list before use; the original human-typed form is kept
// alongside it. Data-position values are always bound parameters, never
// spliced into query text.
package store
