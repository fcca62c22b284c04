package tracker

import "errors"

// Every error the core raises is fatal to the run: there is no retry or
// local recovery anywhere, only the cooperative context cancellation exits
// cleanly.
var (
	// ErrDeviceNotFound: a configured serial did not match any runtime
	// slot and the ignore-missing flag is off.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrInvalidDeviceCount: the resolved device list is empty or longer
	// than the eight channels the consumer accepts.
	ErrInvalidDeviceCount = errors.New("invalid device count")

	// ErrCalibrationFailed: the reference device resolved at startup but
	// its pose could not be read at calibration time.
	ErrCalibrationFailed = errors.New("calibration failed")

	// ErrOrientationMath: a pose matrix carried rotation entries outside
	// the asin domain.
	ErrOrientationMath = errors.New("orientation math error")
)
