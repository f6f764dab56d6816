// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for worldsmith.
//
// Configuration is TOML with built-in defaults and environment variable
// overrides. The default file location is ~/.worldsmith/config.toml; an
// explicit path may be given on the command line.
//
// # Usage
//
//	cfg, err := config.Load()
//
// or, with an explicit path:
//
//	cfg, err := config.LoadFromPath("/etc/worldsmith.toml")
package config
