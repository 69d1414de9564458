package game

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func (c *Coordinator) createRoom(userID, username string) {
	room := &Room{
		ID:          uuid.NewString(),
		CreatorID:   userID,
		CreatorName: username,
		Members:     []Member{{UserID: userID, Username: username}},
	}
	c.rooms[room.ID] = room

	log.Info().Str("room_id", room.ID).Str("user_id", userID).Msg("room_created")
	c.notify.Unicast(userID, RoomCreatedEvent{Type: "roomCreated", Room: c.roomView(room)})
	c.broadcastRoomList()
}

func (c *Coordinator) roomDetails(roomID, userID string) error {
	room := c.rooms[roomID]
	if room == nil {
		return ErrRoomNotFound
	}
	c.notify.Unicast(userID, PlayerJoinedEvent{
		Type:    "playerJoined",
		RoomID:  room.ID,
		Players: playerViews(room.Members),
	})
	return nil
}

func (c *Coordinator) joinRoom(roomID, userID, username string) error {
	room := c.rooms[roomID]
	if room == nil {
		return ErrRoomNotFound
	}
	// A repeated join from the same user is a duplicate signal, not an error.
	if room.hasMember(userID) {
		return nil
	}
	if room.Started {
		return ErrAlreadyStarted
	}
	if len(room.Members) >= 2 {
		return ErrRoomFull
	}

	room.Members = append(room.Members, Member{UserID: userID, Username: username})
	log.Info().Str("room_id", room.ID).Str("user_id", userID).Msg("room_joined")

	c.emitRoom(room, PlayerJoinedEvent{
		Type:    "playerJoined",
		RoomID:  room.ID,
		Players: playerViews(room.Members),
	})
	c.broadcastRoomList()
	return nil
}

func (c *Coordinator) leaveRoom(roomID, userID string) {
	room := c.rooms[roomID]
	if room == nil {
		return
	}
	c.removeFromRoom(room, userID)
	c.broadcastRoomList()
}

// removeFromRoom applies the structural leave rules shared by an explicit
// leave and a connection drop. A started room is never mutated here.
func (c *Coordinator) removeFromRoom(room *Room, userID string) {
	if room.Started {
		return
	}
	if room.CreatorID == userID {
		log.Info().Str("room_id", room.ID).Str("user_id", userID).Msg("room_closed")
		c.emitRoom(room, RoomClosedEvent{Type: "roomClosed", RoomID: room.ID})
		c.destroyRoom(room.ID)
		return
	}
	if !room.hasMember(userID) {
		return
	}

	members := room.Members[:0]
	for _, m := range room.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	room.Members = members
	log.Info().Str("room_id", room.ID).Str("user_id", userID).Msg("room_left")

	c.emitRoom(room, PlayerLeftEvent{
		Type:     "playerLeft",
		RoomID:   room.ID,
		PlayerID: userID,
		Players:  playerViews(room.Members),
	})
	if len(room.Members) == 0 {
		c.destroyRoom(room.ID)
	}
}

func (c *Coordinator) disconnect(userID string) {
	for _, room := range c.rooms {
		if room.hasMember(userID) {
			c.removeFromRoom(room, userID)
		}
	}
	c.broadcastRoomList()
}

// destroyRoom removes the room and any match/coin state. Idempotent.
func (c *Coordinator) destroyRoom(roomID string) {
	delete(c.rooms, roomID)
	delete(c.matches, roomID)
	delete(c.coins, roomID)
}

// openRooms builds the discovery list fresh on every call.
func (c *Coordinator) openRooms() []RoomView {
	out := make([]RoomView, 0, len(c.rooms))
	for _, room := range c.rooms {
		if room.open() {
			out = append(out, c.roomView(room))
		}
	}
	return out
}

func (c *Coordinator) broadcastRoomList() {
	c.notify.Broadcast(RoomListEvent{Type: "roomList", Rooms: c.openRooms()})
}

func (c *Coordinator) emitRoom(room *Room, event any) {
	for _, m := range room.Members {
		c.notify.Unicast(m.UserID, event)
	}
}
