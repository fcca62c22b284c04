// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"strings"

	"github.com/relabs-tech/fbt_bridge/internal/app"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:8090", "listen address for the pose feed")
	devices := flag.String("devices", "SIM-WAIST,SIM-LFOOT,SIM-RFOOT", "comma-separated device serials to simulate")
	flag.Parse()

	log.Println("starting fbt-bridge pose feed simulator")

	if err := app.RunSimulator(*listen, strings.Split(*devices, ",")); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
