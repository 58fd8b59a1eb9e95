package ws

import (
	"context"
	"encoding/json"
	"sync"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/logger"
)

// Message is the envelope written to dashboards.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	TypeTelemetry   = "telemetry"
	TypePredictions = "predictions"
)

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *logger.Logger
	done       chan struct{}
}

func NewHub(l *logger.Logger) *Hub {
	if l == nil {
		l = logger.Nop()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        l.Named("ws"),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Info("client registered", logger.String("client_id", client.id), logger.String("remote", client.remote))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info("client unregistered", logger.String("client_id", client.id))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn("client too slow, removing", logger.String("client_id", client.id))
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a message for every client. It never blocks; when the queue is full the
// message is dropped.
func (h *Hub) Broadcast(kind string, payload interface{}) {
	b, err := json.Marshal(Message{Type: kind, Payload: payload})
	if err != nil {
		h.log.Error("marshal broadcast", logger.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.log.Warn("broadcast queue full, dropping", logger.String("type", kind))
	}
}

// PublishTelemetry streams a tick to dashboards.
func (h *Hub) PublishTelemetry(_ context.Context, ev models.TelemetryEvent) {
	h.Broadcast(TypeTelemetry, ev)
}

// PublishBundle streams an applied prediction bundle to dashboards.
func (h *Hub) PublishBundle(_ context.Context, b models.PredictionBundle) {
	h.Broadcast(TypePredictions, b)
}
