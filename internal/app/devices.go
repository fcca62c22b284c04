package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

// RunDevices connects to the pose feed, enumerates every device serial and
// prints them with their current slot indices. The slot numbers are what
// the bridge resolves serials against at startup.
func RunDevices(feedURL string) error {
	remote, err := vr.NewRemoteRuntime(feedURL)
	if err != nil {
		return err
	}
	defer remote.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := remote.WaitReady(ctx); err != nil {
		return fmt.Errorf("waiting for first pose frame: %w", err)
	}

	serials, err := vr.AllSerials(remote)
	if err != nil {
		return err
	}

	log.Printf("%d devices exposed by the runtime", len(serials))
	for i, s := range serials {
		fmt.Printf("slot %2d: %s\n", i, s)
	}
	return nil
}
