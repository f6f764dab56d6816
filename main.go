// worldsmith - An interactive shell for editing a world model backed by
// a graph store.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jeranaias/worldsmith/internal/cli"
	"github.com/jeranaias/worldsmith/internal/commands"
	"github.com/jeranaias/worldsmith/internal/config"
	"github.com/jeranaias/worldsmith/internal/store"
	"github.com/jeranaias/worldsmith/internal/world"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.worldsmith/config.toml)")
	dataFile := flag.String("data", "", "world data JSON file to import at startup")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("worldsmith %s (%s)\n", Version, GitCommit)
		return
	}

	if err := run(*configPath, *dataFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dataFile string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if dataFile != "" {
		cfg.World.DataFile = dataFile
	}

	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	// The shell owns the terminal; logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Printf("worldsmith %s starting", Version)

	db, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	w := world.New(store.NewGraph(db))
	w.SetMaxGraphDepth(cfg.World.MaxDepth)

	if cfg.World.DataFile != "" {
		// A data file replaces whatever the store held.
		if err := w.Clear(); err != nil {
			return err
		}
		if err := w.Import(cfg.World.DataFile); err != nil {
			return err
		}
		if err := w.Populate(); err != nil {
			return err
		}
	} else {
		if err := w.Load(); err != nil {
			return err
		}
	}

	registry := commands.NewRegistry()
	cli.RegisterWorldCommands(registry, w, cfg.World.DefaultDepth)
	completer := commands.NewCompleter(registry, w)

	shell := cli.NewShell(cfg.Prompt, cfg.History.File, registry, completer)
	return shell.Run()
}
