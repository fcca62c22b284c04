package telemetry

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/relabs-tech/fbt_bridge/internal/tracker"
)

// TrackerState is one channel's pose inside a snapshot.
type TrackerState struct {
	Channel  int        `json:"channel"`
	Serial   string     `json:"serial"`
	Position [3]float64 `json:"position"` // meters, X already negated
	Rotation [3]float64 `json:"rotation"` // radians
}

// Snapshot is one tick of the bridge as published to the telemetry topic.
type Snapshot struct {
	Session  string         `json:"session"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Trackers []TrackerState `json:"trackers"`
}

// Publisher mirrors every streamed tick to an MQTT topic as JSON, for the
// console and web monitors. Publishing is best-effort: a broker hiccup is
// logged and the streaming loop keeps going (the fail-fast contract covers
// the OSC transport, not this monitoring side-channel).
type Publisher struct {
	client  mqtt.Client
	topic   string
	session string
}

// NewPublisher connects to the broker and returns a publisher identified by
// a fresh session ID.
func NewPublisher(broker, topic string) (*Publisher, error) {
	session := uuid.NewString()

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fbt-bridge-" + session[:8])

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Printf("telemetry: connected to MQTT broker at %s, session %s", broker, session)

	return &Publisher{client: client, topic: topic, session: session}, nil
}

func newSnapshot(session string, tick uint64, channels []tracker.ChannelPose) Snapshot {
	snap := Snapshot{
		Session:  session,
		Tick:     tick,
		Time:     time.Now(),
		Trackers: make([]TrackerState, 0, len(channels)),
	}
	for _, ch := range channels {
		snap.Trackers = append(snap.Trackers, TrackerState{
			Channel:  ch.Channel,
			Serial:   ch.Serial,
			Position: [3]float64{ch.Position.X, ch.Position.Y, ch.Position.Z},
			Rotation: [3]float64{ch.Orientation.X, ch.Orientation.Y, ch.Orientation.Z},
		})
	}
	return snap
}

// ObserveTick implements tracker.TickObserver.
func (p *Publisher) ObserveTick(tick uint64, channels []tracker.ChannelPose) {
	payload, err := json.Marshal(newSnapshot(p.session, tick, channels))
	if err != nil {
		log.Printf("telemetry: json marshal error: %v", err)
		return
	}

	if token := p.client.Publish(p.topic, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("telemetry: MQTT publish error: %v", token.Error())
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
