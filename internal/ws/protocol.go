package ws

import "coin-rush/internal/game"

// Client-to-server messages. Each frame is JSON with a type discriminator;
// unknown or malformed frames are dropped.

type AuthenticateMessage struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type RoomMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type PositionMessage struct {
	Type     string   `json:"type"`
	RoomID   string   `json:"roomId"`
	Position game.Vec `json:"position"`
}

type CollectMessage struct {
	Type           string   `json:"type"`
	RoomID         string   `json:"roomId"`
	PlayerPosition game.Vec `json:"playerPosition"`
}
