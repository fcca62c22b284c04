package app

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/fbt_bridge/internal/telemetry"
)

// RunWeb serves the live tracker monitor: it subscribes to the bridge's
// telemetry topic and pushes every snapshot to connected browsers over a
// websocket, with a plain JSON endpoint for the latest state.
func RunWeb(listen, broker, topic string) error {
	var (
		mu       sync.RWMutex
		lastSnap telemetry.Snapshot
		haveSnap bool
		clients  = make(map[*websocket.Conn]struct{})
	)

	// 1) Connect to the MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fbt-web-" + uuid.NewString()[:8])

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", broker)

	// 2) Subscribe to the telemetry topic; fan every snapshot out to the
	// websocket clients
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var snap telemetry.Snapshot
		if err := json.Unmarshal(msg.Payload(), &snap); err != nil {
			log.Printf("web: snapshot unmarshal error: %v", err)
			return
		}

		mu.Lock()
		lastSnap = snap
		haveSnap = true
		for conn := range clients {
			if err := conn.WriteMessage(websocket.TextMessage, msg.Payload()); err != nil {
				conn.Close()
				delete(clients, conn)
			}
		}
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", topic)

	// 3) JSON API endpoint: latest snapshot
	http.HandleFunc("/api/trackers", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSnap {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSnap); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket push of every snapshot
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}

		mu.Lock()
		clients[conn] = struct{}{}
		mu.Unlock()
		log.Printf("web: monitor client connected from %s", r.RemoteAddr)

		// Drain client reads so pings and close frames are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					mu.Lock()
					delete(clients, conn)
					mu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	log.Printf("web: monitor listening on %s", listen)
	return http.ListenAndServe(listen, nil)
}
