package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/studyhub-app/backend/internal/models"
)

func TestRecordEventsReachWebsocketClients(t *testing.T) {
	ts, srv := setupTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the mutation below, wait for the hub to see us.
	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Hub never registered the client")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/records/"+models.KindNote, map[string]interface{}{
		"title": "Event test",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create failed with %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Expected an event frame: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if env.Type != EventRecordCreated {
		t.Errorf("Expected %s, got %s", EventRecordCreated, env.Type)
	}
	if env.Kind != models.KindNote {
		t.Errorf("Expected kind %s, got %s", models.KindNote, env.Kind)
	}
	if env.Timestamp == 0 {
		t.Error("Expected a timestamp")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode event data: %v", err)
	}
	if data["title"] != "Event test" {
		t.Errorf("Expected record payload, got %v", data)
	}
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	h := NewHub()
	// Run is not started; the hub must still absorb events.
	for i := 0; i < 100; i++ {
		h.BroadcastRecord(EventRecordUpdated, models.KindTodo, json.RawMessage(`{}`))
	}
	if h.ClientCount() != 0 {
		t.Errorf("Expected no clients, got %d", h.ClientCount())
	}
}
