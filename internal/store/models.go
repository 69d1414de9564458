package store

import "time"

type User struct {
	ID           string
	Username     string
	Wins         int64
	Losses       int64
	GamesPlayed  int64
	HighestScore int64
	CreatedAt    time.Time
}

type Match struct {
	ID           string
	Player1ID    string
	Player2ID    string
	Player1Score int64
	Player2Score int64
	WinnerID     *string
	CreatedAt    time.Time
}
