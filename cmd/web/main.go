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
	listen := flag.String("listen", ":8080", "listen address for the monitor")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker the bridge publishes telemetry to")
	topic := flag.String("topic", "fbt/trackers", "telemetry topic")
	flag.Parse()

	log.Println("starting fbt-bridge web monitor (MQTT subscriber)")
	log.Println("Note: live data requires the bridge to be running with telemetry enabled (-broker)")

	if err := app.RunWeb(*listen, *broker, *topic); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
