// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/fbt_bridge/internal/app"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:9000", "address to receive OSC tracker messages on")
	flag.Parse()

	log.Println("starting fbt-bridge OSC console")

	if err := app.RunConsole(*listen); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
