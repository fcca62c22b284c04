package tracker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

func TestExtractPosition(t *testing.T) {
	m := vr.EulerMatrix(0, 0, 0, [3]float64{1.5, -0.25, 3.75})

	pos, _, err := Extract(m)
	require.NoError(t, err)

	// Raw translation, no handedness correction at this layer.
	assert.Equal(t, 1.5, pos.X)
	assert.Equal(t, -0.25, pos.Y)
	assert.Equal(t, 3.75, pos.Z)
}

func TestExtractRoundTrip(t *testing.T) {
	// Compose Rx·Ry·Rz from known angles, extract, recover the triple.
	// Angles stay clear of the gimbal-lock boundary and the atan range.
	triples := [][3]float64{
		{0.2, 0.3, 0.4},
		{-0.5, 0.1, -0.2},
		{1.2, -1.1, 0.9},
		{0.01, 0.75, -1.3},
	}

	for _, want := range triples {
		m := vr.EulerMatrix(want[0], want[1], want[2], [3]float64{0, 1, 0})

		_, rot, err := Extract(m)
		require.NoError(t, err)

		assert.InDelta(t, want[0], rot.X, 1e-9, "rotX for %v", want)
		assert.InDelta(t, want[1], rot.Y, 1e-9, "rotY for %v", want)
		assert.InDelta(t, want[2], rot.Z, 1e-9, "rotZ for %v", want)
	}
}

func TestExtractDegenerateBranch(t *testing.T) {
	// m[0][2] exactly zero forces the degenerate branch: rotation about Z
	// is indeterminate there and is fixed at zero.
	m := vr.EulerMatrix(0.5, 0, 0, [3]float64{0, 0, 0})
	require.Equal(t, 0.0, m[0][2])

	_, rot, err := Extract(m)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, rot.X, 1e-9)
	assert.Equal(t, 0.0, rot.Y)
	assert.Equal(t, 0.0, rot.Z)
}

func TestExtractNonDegenerateBranchSelected(t *testing.T) {
	// Any nonzero m[0][2] in (-1, 1) must use the non-degenerate branch,
	// which can produce a nonzero rotZ.
	m := vr.EulerMatrix(0, 0.3, 0.4, [3]float64{0, 0, 0})

	_, rot, err := Extract(m)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, rot.Z, 1e-9)
}

func TestExtractAsinDomainViolation(t *testing.T) {
	var m vr.Matrix
	m[0][2] = 1.5

	_, _, err := Extract(m)
	assert.ErrorIs(t, err, ErrOrientationMath)
}

func TestExtractZeroDivisorPropagates(t *testing.T) {
	// Zero divisors follow IEEE-754 and propagate; they are not an error.
	// atan(±Inf) saturates at ±π/2, 0/0 yields NaN.

	t.Run("non-degenerate m[2][2] zero", func(t *testing.T) {
		var m vr.Matrix
		m[0][2] = 0.5 // rotY = asin(0.5) != 0
		m[1][2] = -1
		m[2][2] = 0

		_, rot, err := Extract(m)
		require.NoError(t, err)
		assert.Equal(t, math.Pi/2, rot.X)
	})

	t.Run("non-degenerate m[0][0] zero", func(t *testing.T) {
		var m vr.Matrix
		m[0][2] = 0.5
		m[0][1] = -1
		m[0][0] = 0
		m[2][2] = 1

		_, rot, err := Extract(m)
		require.NoError(t, err)
		assert.Equal(t, math.Pi/2, rot.Z)
	})

	t.Run("degenerate m[1][1] zero", func(t *testing.T) {
		var m vr.Matrix
		m[2][1] = 1
		m[1][1] = 0 // rotY == 0, degenerate branch

		_, rot, err := Extract(m)
		require.NoError(t, err)
		assert.Equal(t, math.Pi/2, rot.X)
	})

	t.Run("zero over zero is NaN", func(t *testing.T) {
		var m vr.Matrix
		m[0][2] = 0.5
		m[1][2] = 0
		m[2][2] = 0
		m[0][0] = 1

		_, rot, err := Extract(m)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(rot.X))
	})
}
