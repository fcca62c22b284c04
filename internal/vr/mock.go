package vr

import (
	"context"
)

// MockRuntime is a scripted Runtime for tests: a fixed serial list and a
// sequence of pose frames served one per LatestPoses call. Once the frames
// run out it parks until the context is cancelled (calling OnIdle first, so
// a test can trigger that cancellation).
type MockRuntime struct {
	Serials []string
	Frames  [][]Pose

	// ReadErr, when set, is returned by every LatestPoses call.
	ReadErr error
	// SerialErr, when set, is returned by every DeviceSerial call.
	SerialErr error
	// OnIdle is invoked once the scripted frames are exhausted.
	OnIdle func()

	next int
}

func (m *MockRuntime) DeviceSerial(index int) (string, error) {
	if m.SerialErr != nil {
		return "", m.SerialErr
	}
	if index < 0 || index >= len(m.Serials) {
		return "", nil
	}
	return m.Serials[index], nil
}

func (m *MockRuntime) LatestPoses(ctx context.Context) ([]Pose, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.next < len(m.Frames) {
		f := m.Frames[m.next]
		m.next++
		return f, nil
	}
	if m.OnIdle != nil {
		m.OnIdle()
	}
	<-ctx.Done()
	return nil, ctx.Err()
}
