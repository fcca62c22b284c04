// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package osc

import (
	"fmt"

	goosc "github.com/hypebeast/go-osc/osc"
)

// Sender is the outbound message transport as the core sees it: one
// address-tagged datagram per call, fire-and-forget. There is no
// acknowledgment or retry; a send error is fatal to the session.
type Sender interface {
	Send(address string, args ...float64) error
}

// Client sends OSC messages over UDP. Arguments go out as float32, the OSC
// type the receiving application reads.
type Client struct {
	client *goosc.Client
}

// NewClient creates a sender targeting addr:port.
func NewClient(addr string, port int) *Client {
	return &Client{client: goosc.NewClient(addr, port)}
}

// Send fires one OSC message and forgets it.
func (c *Client) Send(address string, args ...float64) error {
	msg := goosc.NewMessage(address)
	for _, a := range args {
		msg.Append(float32(a))
	}
	if err := c.client.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", address, err)
	}
	return nil
}
