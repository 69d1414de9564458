package game

import "time"

// Stage is the per-room match phase. A room without a MatchState is
// waiting; once started it moves countdown -> playing -> ended and the
// room is destroyed on ended.
type Stage string

const (
	StageCountdown Stage = "countdown"
	StagePlaying   Stage = "playing"
	StageEnded     Stage = "ended"
)

type Member struct {
	UserID   string
	Username string
}

// Room is a pairing lobby for exactly two participants. Membership is
// immutable once Started is set.
type Room struct {
	ID          string
	CreatorID   string
	CreatorName string
	Members     []Member
	Started     bool
}

func (r *Room) hasMember(userID string) bool {
	for _, m := range r.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (r *Room) open() bool {
	return len(r.Members) < 2 && !r.Started
}

type PlayerScore struct {
	UserID string
	Score  int
}

// MatchState is the authoritative score record for one started room.
// Scores only move while Stage is playing and Finished is false.
type MatchState struct {
	Player1   PlayerScore
	Player2   PlayerScore
	Stage     Stage
	StartedAt time.Time
	Deadline  time.Time
	Finished  bool
}

// CoinState holds the single collectible of a running match. A pickup is
// only honored while Active; deactivation and the score credit happen in
// the same handler step, so one activation pays out at most once.
type CoinState struct {
	Position Vec
	Active   bool
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
