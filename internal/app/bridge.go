// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/relabs-tech/fbt_bridge/internal/config"
	"github.com/relabs-tech/fbt_bridge/internal/osc"
	"github.com/relabs-tech/fbt_bridge/internal/telemetry"
	"github.com/relabs-tech/fbt_bridge/internal/tracker"
	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

const logFile = "bridge_log.txt"

// RunBridge wires the whole pipeline and runs the streaming worker until a
// termination signal or a fatal error. Any error it returns already ended
// the session; the caller's only job is to report it and exit.
func RunBridge(cfg *config.Config, mock bool) error {
	// Log to the console and to the session log file.
	if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		log.Printf("cannot open %s: %v (console logging only)", logFile, err)
	} else {
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- 1) Connect the tracking runtime ----
	var runtime vr.Runtime
	if mock {
		serials := slices.Clone(cfg.Devices)
		if cfg.ReferenceDevice != "" && !slices.Contains(serials, cfg.ReferenceDevice) {
			serials = append(serials, cfg.ReferenceDevice)
		}
		log.Print("using synthetic runtime (no pose feed)")
		runtime = vr.NewSyntheticRuntime(serials)
	} else {
		remote, err := vr.NewRemoteRuntime(cfg.PoseFeedURL)
		if err != nil {
			return err
		}
		defer remote.Close()
		if err := remote.WaitReady(ctx); err != nil {
			return err
		}
		log.Printf("connected to pose feed at %s", cfg.PoseFeedURL)
		runtime = remote
	}

	serials, err := vr.AllSerials(runtime)
	if err != nil {
		return err
	}
	log.Printf("devices: %s", strings.Join(serials, ", "))

	// ---- 2) Resolve configured devices to runtime slots ----
	devices, err := tracker.ResolveDevices(runtime, cfg.Devices, cfg.IgnoreMissing)
	if err != nil {
		return err
	}
	for i, dev := range devices {
		log.Printf("channel %d: %s (slot %d)", i+1, dev.Serial, dev.Index)
	}

	// ---- 3) One-shot height calibration ----
	offset := 0.0
	if cfg.ReferenceDevice != "" {
		refIndex, err := tracker.ResolveReference(runtime, cfg.ReferenceDevice)
		if err != nil {
			return err
		}
		offset, err = tracker.ComputeOffset(ctx, runtime, refIndex, cfg.Delta)
		if err != nil {
			return err
		}
		log.Printf("calibrated against %s: Y offset %+.3f m", cfg.ReferenceDevice, offset)
	}

	// ---- 4) Outbound transport and optional telemetry ----
	sender := osc.NewClient(cfg.Addr, cfg.Port)
	log.Printf("sending OSC to %s:%d", cfg.Addr, cfg.Port)

	streamer := tracker.NewStreamer(runtime, sender, devices, offset)
	if cfg.MQTTBroker != "" {
		pub, err := telemetry.NewPublisher(cfg.MQTTBroker, cfg.TelemetryTopic)
		if err != nil {
			return err
		}
		defer pub.Close()
		streamer.Observer = pub
	}

	// ---- 5) Run the streaming worker and join it ----
	errCh := make(chan error, 1)
	go func() {
		errCh <- streamer.Run(ctx)
	}()

	if err := <-errCh; err != nil {
		return err
	}
	log.Print("bridge stopped")
	return nil
}
