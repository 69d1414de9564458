package game

// Server-to-client events. Every message carries a type discriminator so a
// single websocket stream can multiplex them.

type PlayerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type RoomView struct {
	ID          string       `json:"id"`
	CreatorID   string       `json:"creatorId"`
	CreatorName string       `json:"creatorName"`
	Players     []PlayerView `json:"players"`
	GameStarted bool         `json:"gameStarted"`
}

type ScoreView struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

type MatchView struct {
	Player1  ScoreView `json:"player1"`
	Player2  ScoreView `json:"player2"`
	Finished bool      `json:"finished"`
}

type CoinView struct {
	Position Vec  `json:"position"`
	Active   bool `json:"active"`
}

type RoomListEvent struct {
	Type  string     `json:"type"`
	Rooms []RoomView `json:"rooms"`
}

type RoomCreatedEvent struct {
	Type string   `json:"type"`
	Room RoomView `json:"room"`
}

type PlayerJoinedEvent struct {
	Type    string       `json:"type"`
	RoomID  string       `json:"roomId"`
	Players []PlayerView `json:"players"`
}

type PlayerLeftEvent struct {
	Type     string       `json:"type"`
	RoomID   string       `json:"roomId"`
	PlayerID string       `json:"playerId"`
	Players  []PlayerView `json:"players"`
}

type RoomClosedEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type GameStartingEvent struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	Countdown int    `json:"countdown"`
}

type GameStartedEvent struct {
	Type      string     `json:"type"`
	RoomID    string     `json:"roomId"`
	GameState MatchView  `json:"gameState"`
	CoinState CoinView   `json:"coinState"`
	Platforms []Platform `json:"platforms"`
}

type ScoreUpdateEvent struct {
	Type         string `json:"type"`
	RoomID       string `json:"roomId"`
	Player1Score int    `json:"player1Score"`
	Player2Score int    `json:"player2Score"`
}

type CoinUpdateEvent struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	Position Vec    `json:"position"`
	Active   bool   `json:"active"`
}

type OpponentPositionEvent struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	Position Vec    `json:"position"`
}

type GameEndedEvent struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"roomId"`
	GameState MatchView `json:"gameState"`
	Winner    string    `json:"winner,omitempty"`
	GameID    string    `json:"gameId,omitempty"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorEvent(err error) ErrorEvent {
	return ErrorEvent{Type: "error", Message: err.Error()}
}

func (c *Coordinator) roomView(r *Room) RoomView {
	return RoomView{
		ID:          r.ID,
		CreatorID:   r.CreatorID,
		CreatorName: r.CreatorName,
		Players:     playerViews(r.Members),
		GameStarted: r.Started,
	}
}

func playerViews(members []Member) []PlayerView {
	out := make([]PlayerView, 0, len(members))
	for _, m := range members {
		out = append(out, PlayerView{ID: m.UserID, Username: m.Username})
	}
	return out
}

func matchView(m *MatchState) MatchView {
	return MatchView{
		Player1:  ScoreView{ID: m.Player1.UserID, Score: m.Player1.Score},
		Player2:  ScoreView{ID: m.Player2.UserID, Score: m.Player2.Score},
		Finished: m.Finished,
	}
}

func coinView(c *CoinState) CoinView {
	return CoinView{Position: c.Position, Active: c.Active}
}
