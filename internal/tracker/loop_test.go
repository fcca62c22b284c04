package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

type sentMessage struct {
	address string
	args    []float64
}

// recordingSender captures every outbound message; failAt > 0 makes the
// n-th send fail.
type recordingSender struct {
	messages []sentMessage
	failAt   int
	failErr  error
}

func (s *recordingSender) Send(address string, args ...float64) error {
	if s.failAt > 0 && len(s.messages)+1 == s.failAt {
		return s.failErr
	}
	s.messages = append(s.messages, sentMessage{address: address, args: args})
	return nil
}

type recordingObserver struct {
	ticks    int
	channels []ChannelPose
}

func (o *recordingObserver) ObserveTick(tick uint64, channels []ChannelPose) {
	o.ticks++
	o.channels = channels
}

func TestStreamerSingleTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frame := []vr.Pose{
		{Matrix: vr.EulerMatrix(0.1, 0.2, 0.3, [3]float64{1.0, 1.5, -0.5})},
		{Matrix: vr.EulerMatrix(-0.2, 0.1, 0.0, [3]float64{0.25, 0.8, 0.75})},
	}
	rt := &vr.MockRuntime{
		Serials: []string{"WAIST", "FOOT"},
		Frames:  [][]vr.Pose{frame},
		OnIdle:  cancel, // one tick, then terminate
	}
	sender := &recordingSender{}
	observer := &recordingObserver{}

	devices, err := ResolveDevices(rt, []string{"WAIST", "FOOT"}, false)
	require.NoError(t, err)

	s := NewStreamer(rt, sender, devices, 0.25)
	s.Observer = observer
	require.NoError(t, s.Run(ctx))

	// Exactly four messages per channel, channel-major, fixed order.
	require.Len(t, sender.messages, 8)
	wantAddresses := []string{
		"/tracking/trackers/1/position",
		"/tracking/trackers/1/rotation/x",
		"/tracking/trackers/1/rotation/y",
		"/tracking/trackers/1/rotation/z",
		"/tracking/trackers/2/position",
		"/tracking/trackers/2/rotation/x",
		"/tracking/trackers/2/rotation/y",
		"/tracking/trackers/2/rotation/z",
	}
	for i, want := range wantAddresses {
		assert.Equal(t, want, sender.messages[i].address)
	}

	// Channel 1 position: X negated, Y shifted by the calibration offset.
	pos1 := sender.messages[0].args
	require.Len(t, pos1, 3)
	assert.InDelta(t, -1.0, pos1[0], 1e-9)
	assert.InDelta(t, 1.75, pos1[1], 1e-9)
	assert.InDelta(t, -0.5, pos1[2], 1e-9)

	// Channel 1 rotations recover the composed angles.
	assert.InDelta(t, 0.1, sender.messages[1].args[0], 1e-9)
	assert.InDelta(t, 0.2, sender.messages[2].args[0], 1e-9)
	assert.InDelta(t, 0.3, sender.messages[3].args[0], 1e-9)

	// Channel 2 position.
	pos2 := sender.messages[4].args
	assert.InDelta(t, -0.25, pos2[0], 1e-9)
	assert.InDelta(t, 1.05, pos2[1], 1e-9)
	assert.InDelta(t, 0.75, pos2[2], 1e-9)

	// The observer saw the tick with both channels.
	assert.Equal(t, 1, observer.ticks)
	require.Len(t, observer.channels, 2)
	assert.Equal(t, 1, observer.channels[0].Channel)
	assert.Equal(t, "WAIST", observer.channels[0].Serial)
	assert.Equal(t, 2, observer.channels[1].Channel)
}

func TestStreamerTerminatesBeforeFirstRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // flag set before the first tick

	rt := &vr.MockRuntime{
		Serials: []string{"A"},
		Frames:  [][]vr.Pose{{{Matrix: vr.EulerMatrix(0, 0, 0, [3]float64{0, 1, 0})}}},
	}
	sender := &recordingSender{}

	s := NewStreamer(rt, sender, []ResolvedDevice{{Serial: "A", Index: 0}}, 0)
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, sender.messages)
}

func TestStreamerAbortsOnReadFailure(t *testing.T) {
	readErr := errors.New("compositor unavailable")
	rt := &vr.MockRuntime{ReadErr: readErr}
	sender := &recordingSender{}

	s := NewStreamer(rt, sender, []ResolvedDevice{{Serial: "A", Index: 0}}, 0)
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
	assert.Empty(t, sender.messages)
}

func TestStreamerAbortsOnSendFailure(t *testing.T) {
	sendErr := errors.New("socket closed")
	rt := &vr.MockRuntime{
		Serials: []string{"A"},
		Frames:  [][]vr.Pose{{{Matrix: vr.EulerMatrix(0, 0, 0, [3]float64{0, 1, 0})}}},
	}
	sender := &recordingSender{failAt: 2, failErr: sendErr}

	s := NewStreamer(rt, sender, []ResolvedDevice{{Serial: "A", Index: 0}}, 0)
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	// The failing send aborts the tick mid-channel; nothing is retried.
	assert.Len(t, sender.messages, 1)
}

func TestStreamerAbortsOnMissingPoseSlot(t *testing.T) {
	rt := &vr.MockRuntime{
		Serials: []string{"A"},
		Frames:  [][]vr.Pose{{{Matrix: vr.EulerMatrix(0, 0, 0, [3]float64{0, 1, 0})}}},
	}
	sender := &recordingSender{}

	// Resolved slot 3 but the frame only carries one pose.
	s := NewStreamer(rt, sender, []ResolvedDevice{{Serial: "A", Index: 3}}, 0)
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "pose read")
}

func TestStreamerAbortsOnTransformFailure(t *testing.T) {
	var bad vr.Matrix
	bad[0][2] = 2 // outside asin domain

	rt := &vr.MockRuntime{
		Serials: []string{"A"},
		Frames:  [][]vr.Pose{{{Matrix: bad}}},
	}
	sender := &recordingSender{}

	s := NewStreamer(rt, sender, []ResolvedDevice{{Serial: "A", Index: 0}}, 0)
	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrOrientationMath)
}
