package vr

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame is the wire format of the pose feed: one JSON document per tracking
// frame, poses as 16 row-major floats each, index-aligned with serials.
type Frame struct {
	Serials []string    `json:"serials"`
	Poses   [][]float64 `json:"poses"`
}

// NewFrame flattens poses into the wire format. Used by feed producers (the
// simulator) and by tests.
func NewFrame(serials []string, poses []Pose) Frame {
	f := Frame{Serials: serials, Poses: make([][]float64, len(poses))}
	for i, p := range poses {
		raw := make([]float64, 0, 16)
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				raw = append(raw, p.Matrix[row][col])
			}
		}
		f.Poses[i] = raw
	}
	return f
}

// RemoteRuntime consumes a pose feed over a websocket and exposes it as a
// Runtime. A reader goroutine keeps only the most recent frame; LatestPoses
// hands each frame out at most once, so the streaming loop runs at the
// feed's native rate.
type RemoteRuntime struct {
	conn *websocket.Conn

	mu         sync.Mutex
	serials    []string
	poses      []Pose
	seq        uint64
	lastServed uint64
	readErr    error

	fresh chan struct{} // capacity 1, signalled per stored frame
	done  chan struct{} // closed when the reader exits
}

// NewRemoteRuntime dials the pose feed and starts the frame reader.
func NewRemoteRuntime(url string) (*RemoteRuntime, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial pose feed %s: %w", url, err)
	}

	r := &RemoteRuntime{
		conn:  conn,
		fresh: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go r.readLoop()
	return r, nil
}

func (r *RemoteRuntime) readLoop() {
	defer close(r.done)
	for {
		var f Frame
		if err := r.conn.ReadJSON(&f); err != nil {
			r.mu.Lock()
			r.readErr = fmt.Errorf("pose feed read: %w", err)
			r.mu.Unlock()
			return
		}

		poses, err := decodeFrame(f)
		if err != nil {
			r.mu.Lock()
			r.readErr = err
			r.mu.Unlock()
			return
		}

		r.mu.Lock()
		r.serials = f.Serials
		r.poses = poses
		r.seq++
		r.mu.Unlock()

		select {
		case r.fresh <- struct{}{}:
		default:
		}
	}
}

func decodeFrame(f Frame) ([]Pose, error) {
	poses := make([]Pose, len(f.Poses))
	for i, raw := range f.Poses {
		if len(raw) != 16 {
			return nil, fmt.Errorf("pose feed frame: pose %d has %d values, want 16", i, len(raw))
		}
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				poses[i].Matrix[row][col] = raw[row*4+col]
			}
		}
	}
	return poses, nil
}

// WaitReady blocks until the first frame has been received, so device
// enumeration has data to work with.
func (r *RemoteRuntime) WaitReady(ctx context.Context) error {
	for {
		r.mu.Lock()
		seq, readErr := r.seq, r.readErr
		r.mu.Unlock()
		if seq > 0 {
			return nil
		}
		if readErr != nil {
			return readErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.fresh:
		case <-r.done:
		}
	}
}

// DeviceSerial reads the serial at the given slot from the most recent
// frame. Returns "" past the end of the device list.
func (r *RemoteRuntime) DeviceSerial(index int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq == 0 {
		if r.readErr != nil {
			return "", r.readErr
		}
		return "", fmt.Errorf("pose feed: no frame received yet")
	}
	if index < 0 || index >= len(r.serials) {
		return "", nil
	}
	return r.serials[index], nil
}

// LatestPoses blocks until a frame newer than the last one served arrives.
func (r *RemoteRuntime) LatestPoses(ctx context.Context) ([]Pose, error) {
	for {
		r.mu.Lock()
		if r.seq > r.lastServed {
			r.lastServed = r.seq
			poses := make([]Pose, len(r.poses))
			copy(poses, r.poses)
			r.mu.Unlock()
			return poses, nil
		}
		readErr := r.readErr
		r.mu.Unlock()

		if readErr != nil {
			return nil, readErr
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-r.fresh:
		case <-r.done:
		}
	}
}

// Close tears down the feed connection; the reader goroutine exits on the
// resulting read error.
func (r *RemoteRuntime) Close() error {
	return r.conn.Close()
}
