package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/relabs-tech/fbt_bridge/internal/osc"
	"github.com/relabs-tech/fbt_bridge/internal/vr"
)

// ChannelPose is one channel's output for one tick, after the handedness
// and calibration corrections.
type ChannelPose struct {
	Channel     int
	Serial      string
	Position    Position
	Orientation Orientation
}

// TickObserver sees every completed tick. Observation is best-effort
// monitoring and must not block the loop for long; it cannot abort the run.
type TickObserver interface {
	ObserveTick(tick uint64, channels []ChannelPose)
}

// Streamer is the long-running control loop: one bulk pose read per tick,
// then four OSC messages per resolved device, in configured-channel order.
// It runs on a single dedicated goroutine; cancellation is cooperative via
// the context checked once per tick.
type Streamer struct {
	runtime vr.Runtime
	sender  osc.Sender
	devices []ResolvedDevice
	offset  float64

	// Observer, when set, receives every tick's channel states.
	Observer TickObserver
}

// NewStreamer wires the loop. devices must already be resolved and offset
// computed; both are read-only from here on.
func NewStreamer(runtime vr.Runtime, sender osc.Sender, devices []ResolvedDevice, offset float64) *Streamer {
	return &Streamer{
		runtime: runtime,
		sender:  sender,
		devices: devices,
		offset:  offset,
	}
}

// Run polls poses and streams tracker messages until ctx is cancelled
// (clean exit, returns nil) or any read, transform, or send fails (the
// error is returned and the session is over; no retry, no resume).
func (s *Streamer) Run(ctx context.Context) error {
	log.Printf("streaming %d channels, Y offset %+.3f m", len(s.devices), s.offset)

	for tick := uint64(0); ; tick++ {
		select {
		case <-ctx.Done():
			log.Print("terminate signal received")
			return nil
		default:
		}

		poses, err := s.runtime.LatestPoses(ctx)
		if err != nil {
			// A cancellation surfacing mid-read is still a clean exit.
			if errors.Is(err, context.Canceled) {
				log.Print("terminate signal received")
				return nil
			}
			return fmt.Errorf("pose read: %w", err)
		}

		channels := make([]ChannelPose, 0, len(s.devices))
		for i, dev := range s.devices {
			channel := i + 1
			if dev.Index >= len(poses) {
				return fmt.Errorf("pose read: device %q slot %d not in pose set of %d", dev.Serial, dev.Index, len(poses))
			}

			pos, rot, err := Extract(poses[dev.Index].Matrix)
			if err != nil {
				return fmt.Errorf("channel %d (%s): %w", channel, dev.Serial, err)
			}

			// Negate X to correct the handedness mismatch with the
			// receiving application; shift Y by the calibration offset.
			pos.X = -pos.X
			pos.Y += s.offset

			if err := s.emit(channel, pos, rot); err != nil {
				return fmt.Errorf("channel %d (%s): %w", channel, dev.Serial, err)
			}
			channels = append(channels, ChannelPose{
				Channel:     channel,
				Serial:      dev.Serial,
				Position:    pos,
				Orientation: rot,
			})
		}

		if s.Observer != nil {
			s.Observer.ObserveTick(tick, channels)
		}
	}
}

// emit sends the channel's four messages in the fixed order the consumer
// relies on: position, then rotation x, y, z.
func (s *Streamer) emit(channel int, pos Position, rot Orientation) error {
	prefix := fmt.Sprintf("/tracking/trackers/%d", channel)
	if err := s.sender.Send(prefix+"/position", pos.X, pos.Y, pos.Z); err != nil {
		return err
	}
	if err := s.sender.Send(prefix+"/rotation/x", rot.X); err != nil {
		return err
	}
	if err := s.sender.Send(prefix+"/rotation/y", rot.Y); err != nil {
		return err
	}
	return s.sender.Send(prefix+"/rotation/z", rot.Z)
}
