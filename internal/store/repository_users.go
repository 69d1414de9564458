package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateUser(ctx context.Context, username string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO users (id, username) VALUES ($1, $2)`,
		id, username,
	)
	return id, err
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, username, wins, losses, games_played, highest_score, created_at
		 FROM users WHERE id = $1`,
		id,
	)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Wins, &u.Losses, &u.GamesPlayed, &u.HighestScore, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// IncrementWin bumps the user's win and play counters and raises the
// recorded high score when the match score beats it.
func (s *Store) IncrementWin(ctx context.Context, userID string, score int) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE users
		 SET wins = wins + 1,
		     games_played = games_played + 1,
		     highest_score = GREATEST(highest_score, $2)
		 WHERE id = $1`,
		userID, score,
	)
	return err
}

func (s *Store) IncrementLoss(ctx context.Context, userID string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE users
		 SET losses = losses + 1,
		     games_played = games_played + 1
		 WHERE id = $1`,
		userID,
	)
	return err
}

func (s *Store) IncrementPlayed(ctx context.Context, userID string) error {
	_, err := s.Pool.Exec(ctx,
		`UPDATE users SET games_played = games_played + 1 WHERE id = $1`,
		userID,
	)
	return err
}
