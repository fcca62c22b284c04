// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tracker

import (
	"fmt"
	"math"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

// Position is a tracked point in meters, absolute tracking space.
type Position struct {
	X float64
	Y float64
	Z float64
}

// Orientation is an axis-sequential Euler angle triple in radians. The
// consumer expects Euler angles, not a quaternion.
type Orientation struct {
	X float64
	Y float64
	Z float64
}

// Extract decomposes a device-to-absolute-tracking matrix into a position
// and Euler angles:
//
//	rotY = asin(m[0][2])
//	rotX = atan(-m[1][2]/m[2][2]), rotZ = atan(-m[0][1]/m[0][0])
//
// When rotY is exactly zero the decomposition is degenerate; rotation about
// Z is indeterminate there and is fixed at zero, with
// rotX = atan(m[2][1]/m[1][1]).
//
// m[0][2] outside [-1, 1] (malformed rotation data) is ErrOrientationMath.
// A zero divisor in either branch follows IEEE-754 and propagates:
// atan(±Inf) = ±π/2, 0/0 yields NaN.
func Extract(m vr.Matrix) (Position, Orientation, error) {
	pos := Position{X: m[0][3], Y: m[1][3], Z: m[2][3]}

	if m[0][2] < -1 || m[0][2] > 1 {
		return Position{}, Orientation{}, fmt.Errorf("%w: m[0][2]=%v outside asin domain", ErrOrientationMath, m[0][2])
	}

	var rot Orientation
	rot.Y = math.Asin(m[0][2])
	if rot.Y != 0 {
		rot.X = math.Atan(-m[1][2] / m[2][2])
		rot.Z = math.Atan(-m[0][1] / m[0][0])
	} else {
		rot.X = math.Atan(m[2][1] / m[1][1])
		rot.Z = 0
	}
	return pos, rot, nil
}
