package ws

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/logger"
)

// SnapshotSource hands out the current farm state for newly connected clients.
type SnapshotSource interface {
	Snapshot() (models.FarmState, error)
}

// Handler upgrades dashboard connections at /ws/telemetry.
type Handler struct {
	hub      *Hub
	snaps    SnapshotSource
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, snaps SnapshotSource) *Handler {
	return &Handler{
		hub:   hub,
		snaps: snaps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/telemetry", h.Serve)
}

// Serve upgrades the connection, sends the current snapshot and starts the pumps.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.hub.log.Warn("upgrade failed", logger.Error(err))
		return nil
	}

	client := &Client{
		id:     uuid.NewString(),
		remote: c.RealIP(),
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	if snap, err := h.snaps.Snapshot(); err == nil {
		if b, err := json.Marshal(Message{Type: TypeTelemetry, Payload: models.TelemetryEvent{Farm: snap}}); err == nil {
			client.send <- b
		}
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		_ = conn.Close()
		return nil
	}
	go client.writePump()
	go client.readPump()
	return nil
}
