package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/geoshape/internal/adapters/nats"
	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to shape kinds.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	Kind   string `json:"kind"`   // "wedge" | "circle" | "rings" | "" (all)
}

// wsSubject maps a requested kind to a NATS subject.
func wsSubject(kind string) (string, bool) {
	if kind == "" {
		return natsadapter.SubjectAll, true
	}
	k := domain.ShapeKind(kind)
	if !k.Valid() {
		return "", false
	}
	return natsadapter.Subject(k), true
}

// WebSocketHandler returns a handler that upgrades to WebSocket and relays
// shape events from NATS to connected clients as JSON.
// Clients send {"action":"subscribe","kind":"rings"}; an empty kind means all.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		log := slog.With("remote", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		relay := func(msg *nats.Msg) {
			data, err := natsadapter.EventJSON(msg.Data)
			if err != nil {
				log.Warn("ws relay decode", "subject", msg.Subject, "error", err)
				return
			}
			_ = writeJSON(json.RawMessage(data))
		}

		// Auto-subscribe to every shape event
		sub, err := nc.Subscribe(natsadapter.SubjectAll, relay)
		if err != nil {
			log.Error("ws default subscribe", "error", err)
			return
		}
		subs[natsadapter.SubjectAll] = sub

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, ok := wsSubject(m.Kind)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown kind: " + m.Kind})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Info("ws client disconnected")
	}
}
