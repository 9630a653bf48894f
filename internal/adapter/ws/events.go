package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/Strob0t/basenames/internal/port/broadcast"
	"github.com/Strob0t/basenames/internal/port/messagequeue"
)

var _ broadcast.Broadcaster = (*Hub)(nil)

// BroadcastEvent marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}

// Relay returns a queue handler forwarding every message to connected
// clients, using the subject as the event type.
func (h *Hub) Relay() messagequeue.Handler {
	return func(ctx context.Context, subject string, data []byte) error {
		h.Broadcast(ctx, Message{Type: subject, Payload: json.RawMessage(data)})
		return nil
	}
}

// parties lists the addresses an event concerns.
type parties struct {
	Owner   string `json:"owner"`
	Creator string `json:"creator"`
}

func eventParties(payload json.RawMessage) parties {
	var p parties
	_ = json.Unmarshal(payload, &p)
	return p
}

func (p parties) involves(addr string) bool {
	return (p.Owner != "" && strings.EqualFold(p.Owner, addr)) ||
		(p.Creator != "" && strings.EqualFold(p.Creator, addr))
}
