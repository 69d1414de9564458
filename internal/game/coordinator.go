package game

import (
	"context"
	"math/rand"
	"time"

	"coin-rush/internal/config"
)

// ResultSink is where finished matches go: one append-only match record
// plus aggregate counter updates for both participants.
type ResultSink interface {
	RecordMatch(ctx context.Context, player1ID, player2ID string, player1Score, player2Score int, winnerID string) (string, error)
	IncrementWin(ctx context.Context, userID string, score int) error
	IncrementLoss(ctx context.Context, userID string) error
	IncrementPlayed(ctx context.Context, userID string) error
}

// Notifier delivers events to connected clients. Unicast targets one bound
// user; Broadcast reaches every authenticated connection. Room fan-out is
// the coordinator's job: it unicasts to each member, which keeps the core
// independent of any transport grouping primitive.
type Notifier interface {
	Unicast(userID string, event any)
	Broadcast(event any)
}

// Coordinator owns every room, match and coin. All state is mutated from a
// single goroutine draining ops, so handlers run to completion in event
// order and no lock is needed on the maps. Timers and persistence results
// re-enter through the same channel and must re-check that their room is
// still alive.
type Coordinator struct {
	cfg    config.GameConfig
	sink   ResultSink
	notify Notifier

	ops chan func()
	rng *rand.Rand

	rooms   map[string]*Room
	matches map[string]*MatchState
	coins   map[string]*CoinState
}

func NewCoordinator(cfg config.GameConfig, sink ResultSink, notify Notifier) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		sink:    sink,
		notify:  notify,
		ops:     make(chan func(), 256),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		rooms:   map[string]*Room{},
		matches: map[string]*MatchState{},
		coins:   map[string]*CoinState{},
	}
}

// Run drains the op channel until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-c.ops:
			op()
		}
	}
}

func (c *Coordinator) dispatch(op func()) {
	c.ops <- op
}

// after schedules fn on the coordinator goroutine once d elapses. The fn
// must guard on state existence itself; a destroyed room makes it a no-op.
func (c *Coordinator) after(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { c.dispatch(fn) })
}

// fail reports a rejected operation to its originating user.
func (c *Coordinator) fail(userID string, err error) {
	c.notify.Unicast(userID, errorEvent(err))
}

// SendOpenRooms pushes the current open-room list to one user, used as the
// authentication reply.
func (c *Coordinator) SendOpenRooms(userID string) {
	c.dispatch(func() {
		c.notify.Unicast(userID, RoomListEvent{Type: "roomList", Rooms: c.openRooms()})
	})
}

func (c *Coordinator) CreateRoom(userID, username string) {
	c.dispatch(func() { c.createRoom(userID, username) })
}

func (c *Coordinator) RoomDetails(roomID, userID string) {
	c.dispatch(func() {
		if err := c.roomDetails(roomID, userID); err != nil {
			c.fail(userID, err)
		}
	})
}

func (c *Coordinator) JoinRoom(roomID, userID, username string) {
	c.dispatch(func() {
		if err := c.joinRoom(roomID, userID, username); err != nil {
			c.fail(userID, err)
		}
	})
}

func (c *Coordinator) LeaveRoom(roomID, userID string) {
	c.dispatch(func() { c.leaveRoom(roomID, userID) })
}

func (c *Coordinator) StartGame(roomID, userID string) {
	c.dispatch(func() {
		if err := c.startGame(roomID, userID); err != nil {
			c.fail(userID, err)
		}
	})
}

func (c *Coordinator) PlayerClick(roomID, userID string) {
	c.dispatch(func() { c.recordClick(roomID, userID) })
}

func (c *Coordinator) PlayerPosition(roomID, userID string, pos Vec) {
	c.dispatch(func() { c.relayPosition(roomID, userID, pos) })
}

func (c *Coordinator) CollectCoin(roomID, userID string, pos Vec) {
	c.dispatch(func() { c.collectCoin(roomID, userID, pos) })
}

// Disconnect applies leave semantics to every room the user occupies. A
// started room is untouched; its match runs to the timer.
func (c *Coordinator) Disconnect(userID string) {
	c.dispatch(func() { c.disconnect(userID) })
}
