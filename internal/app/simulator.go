// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RunSimulator serves a synthetic pose feed on /poses so the bridge (and
// everything downstream of it) can run without tracking hardware. Each
// websocket client gets its own animated pose stream.
func RunSimulator(listen string, serials []string) error {
	http.HandleFunc("/poses", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("simulator: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("simulator: feed client connected from %s", r.RemoteAddr)

		synth := vr.NewSyntheticRuntime(serials)
		ctx := r.Context()
		for {
			poses, err := synth.LatestPoses(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("simulator: frame error: %v", err)
				}
				return
			}
			if err := conn.WriteJSON(vr.NewFrame(serials, poses)); err != nil {
				log.Printf("simulator: feed client gone: %v", err)
				return
			}
		}
	})

	log.Printf("simulator: serving pose feed on ws://%s/poses for %d devices", listen, len(serials))
	return http.ListenAndServe(listen, nil)
}
