// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package vr

import (
	"context"
	"math"
	"time"
)

// SyntheticRuntime generates smooth changing poses without any tracking
// hardware, paced at a fixed frame rate. Handy for driving the whole
// pipeline on a desk: each device sways gently around a standing-height
// origin.
type SyntheticRuntime struct {
	serials []string
	start   time.Time
	period  time.Duration
}

// NewSyntheticRuntime creates a synthetic runtime for the given serials at
// ~90 frames per second (the usual headset compositor rate).
func NewSyntheticRuntime(serials []string) *SyntheticRuntime {
	return &SyntheticRuntime{
		serials: serials,
		start:   time.Now(),
		period:  11 * time.Millisecond,
	}
}

func (s *SyntheticRuntime) DeviceSerial(index int) (string, error) {
	if index < 0 || index >= len(s.serials) {
		return "", nil
	}
	return s.serials[index], nil
}

// LatestPoses waits one frame period, then returns an animated pose per
// device.
func (s *SyntheticRuntime) LatestPoses(ctx context.Context) ([]Pose, error) {
	timer := time.NewTimer(s.period)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	elapsed := time.Since(s.start).Seconds()
	poses := make([]Pose, len(s.serials))
	for i := range s.serials {
		phase := float64(i) * 0.8
		rotX := 0.30 * math.Sin(elapsed*0.7+phase)
		rotY := 0.25 * math.Sin(elapsed*0.5+phase)
		rotZ := 0.20 * math.Sin(elapsed*0.9+phase)
		pos := [3]float64{
			0.15 * math.Sin(elapsed+phase),
			0.90 + 0.05*math.Cos(elapsed*0.6+phase),
			0.15 * math.Cos(elapsed+phase),
		}
		poses[i] = Pose{Matrix: EulerMatrix(rotX, rotY, rotZ, pos)}
	}
	return poses, nil
}
