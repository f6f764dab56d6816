// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across worldsmith.
//
// It contains crash-safe file writing (used for the shell history file)
// and Unicode-safe string truncation for display code.
package util
