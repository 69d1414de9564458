package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"coin-rush/internal/config"
	"coin-rush/internal/game"
	"coin-rush/internal/store"
)

type fakeDirectory map[string]*store.User

func (d fakeDirectory) GetUser(_ context.Context, id string) (*store.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

type nopSink struct{}

func (nopSink) RecordMatch(context.Context, string, string, int, int, string) (string, error) {
	return "match-1", nil
}
func (nopSink) IncrementWin(context.Context, string, int) error { return nil }
func (nopSink) IncrementLoss(context.Context, string) error     { return nil }
func (nopSink) IncrementPlayed(context.Context, string) error   { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := fakeDirectory{
		"u1": {ID: "u1", Username: "Alice"},
		"u2": {ID: "u2", Username: "Bob"},
	}
	srv := NewServer(dir)
	cfg := config.GameConfig{
		Countdown:        3 * time.Second,
		MatchDuration:    time.Minute,
		CoinRespawnDelay: 500 * time.Millisecond,
	}
	coord := game.NewCoordinator(cfg, nopSink{}, srv)
	srv.Attach(coord)

	ctx, cancel := context.WithCancel(context.Background())
	go coord.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event map[string]any
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("decode %q: %v", msg, err)
	}
	return event
}

func TestAuthenticateRepliesWithRoomList(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":"authenticate","userId":"u1"}`)

	event := readEvent(t, conn)
	if event["type"] != "roomList" {
		t.Fatalf("event = %v, want roomList", event)
	}
}

func TestUnknownUserRejected(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":"authenticate","userId":"ghost"}`)

	event := readEvent(t, conn)
	if event["type"] != "error" || event["message"] != "user_not_found" {
		t.Fatalf("event = %v, want user_not_found error", event)
	}
}

func TestUnauthenticatedActionRejected(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":"createRoom"}`)

	event := readEvent(t, conn)
	if event["type"] != "error" || event["message"] != "unauthenticated" {
		t.Fatalf("event = %v, want unauthenticated error", event)
	}
}

func TestCreateRoomNotifiesCreatorAndLobby(t *testing.T) {
	ts := newTestServer(t)
	conn := dial(t, ts)
	send(t, conn, `{"type":"authenticate","userId":"u1"}`)
	readEvent(t, conn) // roomList reply

	send(t, conn, `{"type":"createRoom"}`)

	created := readEvent(t, conn)
	if created["type"] != "roomCreated" {
		t.Fatalf("event = %v, want roomCreated", created)
	}
	room, ok := created["room"].(map[string]any)
	if !ok || room["creatorId"] != "u1" {
		t.Fatalf("room = %v, want creatorId u1", created["room"])
	}
	list := readEvent(t, conn)
	if list["type"] != "roomList" {
		t.Fatalf("event = %v, want refreshed roomList", list)
	}
}

func TestBroadcastReachesOtherAuthenticatedUsers(t *testing.T) {
	ts := newTestServer(t)
	alice := dial(t, ts)
	bob := dial(t, ts)
	send(t, alice, `{"type":"authenticate","userId":"u1"}`)
	send(t, bob, `{"type":"authenticate","userId":"u2"}`)
	readEvent(t, alice)
	readEvent(t, bob)

	send(t, alice, `{"type":"createRoom"}`)

	list := readEvent(t, bob)
	if list["type"] != "roomList" {
		t.Fatalf("event = %v, want roomList broadcast", list)
	}
	rooms, ok := list["rooms"].([]any)
	if !ok || len(rooms) != 1 {
		t.Fatalf("rooms = %v, want one open room", list["rooms"])
	}
}

func TestNewerLoginSupersedesOldConnection(t *testing.T) {
	ts := newTestServer(t)
	first := dial(t, ts)
	send(t, first, `{"type":"authenticate","userId":"u1"}`)
	readEvent(t, first)

	second := dial(t, ts)
	send(t, second, `{"type":"authenticate","userId":"u1"}`)
	readEvent(t, second)

	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			return // superseded connection was closed
		}
	}
}
