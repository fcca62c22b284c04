package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/fbt_bridge/internal/app"
)

func main() {
	feed := flag.String("feed", "ws://127.0.0.1:8090/poses", "pose feed websocket URL")
	flag.Parse()

	log.Println("starting fbt-bridge device listing")

	if err := app.RunDevices(*feed); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
