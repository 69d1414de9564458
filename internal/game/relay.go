package game

// relayPosition forwards a movement sample to the opponent's connection
// only. Movement is client-simulated and cosmetic, so this path does no
// validation and touches no state; pickups go through collectCoin instead.
func (c *Coordinator) relayPosition(roomID, userID string, pos Vec) {
	room := c.rooms[roomID]
	if room == nil || len(room.Members) < 2 || !room.hasMember(userID) {
		return
	}
	for _, m := range room.Members {
		if m.UserID != userID {
			c.notify.Unicast(m.UserID, OpponentPositionEvent{
				Type:     "opponentPosition",
				RoomID:   roomID,
				Position: pos,
			})
			return
		}
	}
}
