package game

import (
	"context"
	"testing"
	"time"

	"coin-rush/internal/config"
)

type sentEvent struct {
	userID string
	event  any
}

type fakeNotifier struct {
	unicasts   []sentEvent
	broadcasts []any
}

func (n *fakeNotifier) Unicast(userID string, event any) {
	n.unicasts = append(n.unicasts, sentEvent{userID: userID, event: event})
}

func (n *fakeNotifier) Broadcast(event any) {
	n.broadcasts = append(n.broadcasts, event)
}

func (n *fakeNotifier) reset() {
	n.unicasts = nil
	n.broadcasts = nil
}

// eventsFor returns the events unicast to one user, in order.
func (n *fakeNotifier) eventsFor(userID string) []any {
	var out []any
	for _, s := range n.unicasts {
		if s.userID == userID {
			out = append(out, s.event)
		}
	}
	return out
}

type recordedMatch struct {
	player1, player2 string
	score1, score2   int
	winner           string
}

type fakeSink struct {
	recordID  string
	recordErr error
	recorded  []recordedMatch
	wins      map[string]int
	losses    []string
	played    []string
}

func newFakeSink() *fakeSink {
	return &fakeSink{recordID: "match-1", wins: map[string]int{}}
}

func (s *fakeSink) RecordMatch(_ context.Context, p1, p2 string, s1, s2 int, winner string) (string, error) {
	if s.recordErr != nil {
		return "", s.recordErr
	}
	s.recorded = append(s.recorded, recordedMatch{player1: p1, player2: p2, score1: s1, score2: s2, winner: winner})
	return s.recordID, nil
}

func (s *fakeSink) IncrementWin(_ context.Context, userID string, score int) error {
	s.wins[userID] = score
	return nil
}

func (s *fakeSink) IncrementLoss(_ context.Context, userID string) error {
	s.losses = append(s.losses, userID)
	return nil
}

func (s *fakeSink) IncrementPlayed(_ context.Context, userID string) error {
	s.played = append(s.played, userID)
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeNotifier, *fakeSink) {
	t.Helper()
	cfg := config.GameConfig{
		Countdown:        3 * time.Second,
		MatchDuration:    60 * time.Second,
		CoinRespawnDelay: 500 * time.Millisecond,
	}
	notify := &fakeNotifier{}
	sink := newFakeSink()
	return NewCoordinator(cfg, sink, notify), notify, sink
}

// runNextOp executes the next queued coordinator op, waiting for the
// persistence goroutine to rejoin when needed.
func runNextOp(t *testing.T, c *Coordinator) {
	t.Helper()
	select {
	case op := <-c.ops:
		op()
	case <-time.After(2 * time.Second):
		t.Fatal("no coordinator op arrived")
	}
}

// twoMemberRoom creates a room with creator "alice" and member "bob".
func twoMemberRoom(t *testing.T, c *Coordinator) *Room {
	t.Helper()
	c.createRoom("alice", "Alice")
	var room *Room
	for _, r := range c.rooms {
		room = r
	}
	if room == nil {
		t.Fatal("room was not created")
	}
	if err := c.joinRoom(room.ID, "bob", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	return room
}

// playingMatch starts the room's match and advances it past the countdown.
func playingMatch(t *testing.T, c *Coordinator) (*Room, *MatchState) {
	t.Helper()
	room := twoMemberRoom(t, c)
	if err := c.startGame(room.ID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.beginPlaying(room.ID)
	match := c.matches[room.ID]
	if match == nil || match.Stage != StagePlaying {
		t.Fatalf("match not playing: %+v", match)
	}
	return room, match
}

func isErr(event any, want error) bool {
	e, ok := event.(ErrorEvent)
	return ok && e.Message == want.Error()
}
