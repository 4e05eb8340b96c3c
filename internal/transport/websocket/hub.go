// Package websocket pushes telemetry snapshots to subscribed dashboards.
package websocket

import (
	"context"
	"encoding/json"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	events      chan *domain.WsServerEvent
	done        chan struct{}

	snapshots domain.SnapshotReader

	log logger.Logger
}

type Subscription struct {
	client  *Client
	channel string
}

// NewHub replays the latest snapshot to new telemetry subscribers when
// snapshots is non-nil.
func NewHub(log logger.Logger, snapshots domain.SnapshotReader) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),
		events:      make(chan *domain.WsServerEvent, 100),
		done:        make(chan struct{}),

		snapshots: snapshots,
		log:       log.With("component", "ws"),
	}
}

// Run must be called once; it returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: client registered", "id", client.ID, "total_clients", len(h.clients))

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			h.log.Debug("ws: client subscribed", "client_id", sub.client.ID, "channel", sub.channel)
			h.replay(sub)

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.channels, sub.channel)
				}
				h.log.Debug("ws: client unsubscribed", "client_id", sub.client.ID, "channel", sub.channel)
			}

		case event := <-h.events:
			h.handleEvent(event)

		case <-ctx.Done():
			for client := range h.clients {
				h.removeClient(client)
			}
			return
		}
	}
}

// enqueue hands v to the Run loop unless it already stopped.
func enqueue[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	for channel, subs := range h.channels {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}

	h.log.Info("ws: client unregistered", "id", client.ID, "total_clients", len(h.clients))
}

func (h *Hub) replay(sub *Subscription) {
	if h.snapshots == nil || sub.channel != domain.WsChannelTelemetry {
		return
	}

	snap, err := h.snapshots.Latest()
	if err != nil {
		return
	}

	message, err := json.Marshal(&domain.WsServerEvent{
		Channel: domain.WsChannelTelemetry,
		Event:   domain.WsEventTelemetryUpdated,
		Payload: snap,
	})
	if err != nil {
		h.log.Error("ws: failed to marshal snapshot", "error", err)
		return
	}

	h.deliver(sub.client, message)
}

func (h *Hub) handleEvent(event *domain.WsServerEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws: failed to marshal server event", "error", err)
		return
	}

	targetClients := h.clients

	if event.Channel != "" {
		subs, ok := h.channels[event.Channel]
		if !ok {
			return
		}
		targetClients = subs
	}

	for client := range targetClients {
		h.deliver(client, message)
	}
}

// deliver drops clients that cannot keep up instead of stalling the hub.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		h.log.Warn("ws: client channel full, force unregister", "id", client.ID)
		h.removeClient(client)
	}
}

func (h *Hub) Broadcast(channel, event string, payload any) {
	select {
	case h.events <- &domain.WsServerEvent{Channel: channel, Event: event, Payload: payload}:
	default:
		h.log.Warn("ws: event queue full, dropping event", "channel", channel, "event", event)
	}
}

// Publish is a scheduler sink.
func (h *Hub) Publish(_ context.Context, snap domain.Snapshot) {
	h.Broadcast(domain.WsChannelTelemetry, domain.WsEventTelemetryUpdated, snap)
}
