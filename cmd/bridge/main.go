// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/fbt_bridge/internal/app"
	"github.com/relabs-tech/fbt_bridge/internal/config"
)

func main() {
	configPath := flag.String("config", "./bridge_config.txt", "path to configuration file")
	mock := flag.Bool("mock", false, "use the synthetic runtime instead of a pose feed")
	overrides := config.BindFlags(flag.CommandLine)
	flag.Parse()

	log.Println("starting fbt-bridge (tracking runtime → OSC trackers)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	overrides.Merge(flag.CommandLine, cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := app.RunBridge(cfg, *mock); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
