package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"coin-rush/internal/game"
	"coin-rush/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// UserDirectory resolves a claimed user id to a stored identity; it is the
// only persistence touch on the connect path.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
}

type Client struct {
	server   *Server
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	username string
}

// Server binds at most one live connection per authenticated user and
// routes inbound frames to the coordinator. It implements game.Notifier
// for the outbound direction.
type Server struct {
	users    UserDirectory
	coord    *game.Coordinator
	upgrader websocket.Upgrader

	mu       sync.Mutex
	byUserID map[string]*Client
}

func NewServer(users UserDirectory) *Server {
	return &Server{
		users:    users,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		byUserID: map[string]*Client{},
	}
}

// Attach wires the coordinator after construction; the coordinator needs
// the server as its Notifier, so one of the two is bound late.
func (s *Server) Attach(coord *game.Coordinator) {
	s.coord = coord
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{server: s, conn: conn, send: make(chan []byte, sendBuffer)}

	go client.writeLoop()
	client.readLoop()
}

func (c *Client) readLoop() {
	s := c.server
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}

		if base.Type == "authenticate" {
			var auth AuthenticateMessage
			if err := json.Unmarshal(msg, &auth); err != nil {
				continue
			}
			s.handleAuthenticate(c, auth)
			continue
		}
		if c.userID == "" {
			c.sendEvent(game.ErrorEvent{Type: "error", Message: game.ErrUnauthenticated.Error()})
			continue
		}

		switch base.Type {
		case "createRoom":
			s.coord.CreateRoom(c.userID, c.username)
		case "getRoomDetails":
			var m RoomMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.RoomDetails(m.RoomID, c.userID)
		case "joinRoom":
			var m RoomMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.JoinRoom(m.RoomID, c.userID, c.username)
		case "leaveRoom":
			var m RoomMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.LeaveRoom(m.RoomID, c.userID)
		case "startGame":
			var m RoomMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.StartGame(m.RoomID, c.userID)
		case "playerClick":
			var m RoomMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.PlayerClick(m.RoomID, c.userID)
		case "playerPosition":
			var m PositionMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.PlayerPosition(m.RoomID, c.userID, m.Position)
		case "collectCoin":
			var m CollectMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			s.coord.CollectCoin(m.RoomID, c.userID, m.PlayerPosition)
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleAuthenticate(c *Client, auth AuthenticateMessage) {
	if auth.UserID == "" {
		c.sendEvent(game.ErrorEvent{Type: "error", Message: game.ErrUnauthenticated.Error()})
		return
	}
	user, err := s.users.GetUser(context.Background(), auth.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.sendEvent(game.ErrorEvent{Type: "error", Message: game.ErrUserNotFound.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", auth.UserID).Msg("authenticate_lookup_failed")
		c.sendEvent(game.ErrorEvent{Type: "error", Message: game.ErrUserNotFound.Error()})
		return
	}

	c.userID = user.ID
	c.username = user.Username
	s.bind(c)

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("session_bound")
	s.coord.SendOpenRooms(user.ID)
}

// bind makes c the user's live connection. A newer login for the same user
// supersedes the old one; there is no dual-session support.
func (s *Server) bind(c *Client) {
	s.mu.Lock()
	old := s.byUserID[c.userID]
	s.byUserID[c.userID] = c
	s.mu.Unlock()

	if old != nil && old != c {
		safeClose(old.send)
		_ = old.conn.Close()
	}
}

// unregister tears down c on read failure. Disconnect semantics apply only
// while c is still the user's bound connection; a superseded connection
// dying must not evict the user from their rooms.
func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	bound := c.userID != "" && s.byUserID[c.userID] == c
	if bound {
		delete(s.byUserID, c.userID)
	}
	s.mu.Unlock()

	if bound {
		s.coord.Disconnect(c.userID)
		log.Info().Str("user_id", c.userID).Msg("session_closed")
	}
	safeClose(c.send)
}

// Unicast implements game.Notifier for one bound user. Unbound users and
// full send buffers drop the event; the client resyncs from later state.
func (s *Server) Unicast(userID string, event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	s.mu.Lock()
	c := s.byUserID[userID]
	s.mu.Unlock()
	if c != nil {
		safeSend(c.send, msg)
	}
}

// Broadcast implements game.Notifier for every authenticated connection.
func (s *Server) Broadcast(event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.byUserID))
	for _, c := range s.byUserID {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		safeSend(c.send, msg)
	}
}

func (c *Client) sendEvent(event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		return
	}
	safeSend(c.send, msg)
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}
