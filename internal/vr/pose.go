package vr

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a device-to-absolute-tracking affine transform. Rows 0-2,
// columns 0-2 form the rotation sub-matrix; column 3, rows 0-2 is the
// translation in meters. Row 3 is the 0,0,0,1 affine padding.
type Matrix [4][4]float64

// Pose is one device's transform for a single frame.
type Pose struct {
	Matrix Matrix
}

// Runtime is the tracking runtime as the bridge sees it: slot-indexed
// serial enumeration plus one bulk pose read per tick.
//
// DeviceSerial returns "" once the index runs past the last device; that
// empty string is the end-of-enumeration sentinel, not an error.
// LatestPoses blocks until a fresh frame is available or ctx is cancelled.
type Runtime interface {
	DeviceSerial(index int) (string, error)
	LatestPoses(ctx context.Context) ([]Pose, error)
}

// AllSerials enumerates every device serial the runtime currently exposes.
func AllSerials(rt Runtime) ([]string, error) {
	var serials []string
	for i := 0; ; i++ {
		s, err := rt.DeviceSerial(i)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return serials, nil
		}
		serials = append(serials, s)
	}
}

// EulerMatrix builds a pose matrix from axis-sequential Euler angles
// (radians, applied as Rx·Ry·Rz) and a translation. Used by the synthetic
// runtime and by tests that need a matrix with a known decomposition.
func EulerMatrix(rotX, rotY, rotZ float64, pos [3]float64) Matrix {
	r := mat.NewDense(3, 3, nil)
	r.Mul(rotation(0, rotX), rotation(1, rotY))
	r.Mul(r, rotation(2, rotZ))

	var m Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = r.At(i, j)
		}
		m[i][3] = pos[i]
	}
	m[3][3] = 1
	return m
}

// rotation returns the elementary rotation about the given axis (0=X, 1=Y,
// 2=Z).
func rotation(axis int, angle float64) *mat.Dense {
	c := math.Cos(angle)
	s := math.Sin(angle)
	switch axis {
	case 0:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		})
	case 1:
		return mat.NewDense(3, 3, []float64{
			c, 0, s,
			0, 1, 0,
			-s, 0, c,
		})
	default:
		return mat.NewDense(3, 3, []float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		})
	}
}
