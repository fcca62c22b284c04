package tracker

import (
	"context"
	"fmt"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

// ComputeOffset reads the reference device's pose once and derives the
// vertical offset applied to every streamed Y position for the rest of the
// run: the reference height is cancelled out and the configured delta added
// on top. Called at most once, before the first streamed tick; an
// unreadable reference pose is fatal.
func ComputeOffset(ctx context.Context, rt vr.Runtime, refIndex int, delta float64) (float64, error) {
	poses, err := rt.LatestPoses(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: read reference pose: %v", ErrCalibrationFailed, err)
	}
	if refIndex < 0 || refIndex >= len(poses) {
		return 0, fmt.Errorf("%w: reference slot %d not in pose set of %d", ErrCalibrationFailed, refIndex, len(poses))
	}
	return -poses[refIndex].Matrix[1][3] + delta, nil
}
