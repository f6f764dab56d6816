// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package world holds the entity/relationship model and keeps the
// in-memory cache consistent with the persistent store.
//
// Every mutation follows the same order: validate against the cache,
// write to the store, and only then update the cache. A store failure
// therefore leaves the cache exactly as it was; cache and store never
// diverge beyond the single in-flight operation.
//
// # Key Types
//
//   - Entity: named, typed node with core and dynamic properties
//   - Relationship: directed, typed edge with canonical and original type
//   - World: the cache plus the write-through CRUD operations
//   - GraphNode: depth-limited expansion of outgoing relationships
//
// The interpreter loop is single-threaded; World does no locking of its
// own.
package world
