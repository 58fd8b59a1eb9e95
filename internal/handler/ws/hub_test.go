package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"AgroPulse/internal/domain/models"
)

type fixedSnapshot struct{ version uint64 }

func (f fixedSnapshot) Snapshot() (models.FarmState, error) {
	return models.FarmState{Version: f.version}, nil
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestHubStreamsTicks(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	e := echo.New()
	NewHandler(hub, fixedSnapshot{version: 3}).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/telemetry"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if m := readMessage(t, conn); m.Type != TypeTelemetry {
		t.Fatalf("expected initial telemetry, got %s", m.Type)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.Clients() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.Clients())
	}

	hub.PublishBundle(context.Background(), models.PredictionBundle{SnapshotVersion: 9})
	m := readMessage(t, conn)
	if m.Type != TypePredictions {
		t.Fatalf("expected predictions, got %s", m.Type)
	}
	payload, _ := json.Marshal(m.Payload)
	if !strings.Contains(string(payload), `"snapshotVersion":9`) {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := &Client{id: "c1", hub: hub, send: make(chan []byte, 1)}
	hub.register <- c
	cancel()
	<-hub.Done()

	if _, ok := <-c.send; ok {
		t.Fatalf("client channel should be closed on stop")
	}
	if hub.Clients() != 0 {
		t.Fatalf("clients left after stop")
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < 200; i++ {
		hub.Broadcast(TypeTelemetry, i)
	}
}
