package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// RecordMatch appends one completed match. winnerID is empty on a tie and
// stored as NULL.
func (s *Store) RecordMatch(ctx context.Context, player1ID, player2ID string, player1Score, player2Score int, winnerID string) (string, error) {
	id := NewID()
	var winner *string
	if winnerID != "" {
		winner = &winnerID
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO matches (id, player1_id, player2_id, player1_score, player2_score, winner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, player1ID, player2ID, player1Score, player2Score, winner,
	)
	return id, err
}

func (s *Store) GetMatch(ctx context.Context, id string) (*Match, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, player1_id, player2_id, player1_score, player2_score, winner_id, created_at
		 FROM matches WHERE id = $1`,
		id,
	)
	var m Match
	err := row.Scan(&m.ID, &m.Player1ID, &m.Player2ID, &m.Player1Score, &m.Player2Score, &m.WinnerID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) ListMatchesByUser(ctx context.Context, userID string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, player1_id, player2_id, player1_score, player2_score, winner_id, created_at
		 FROM matches
		 WHERE player1_id = $1 OR player2_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Match, 0, limit)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Player1ID, &m.Player2ID, &m.Player1Score, &m.Player2Score, &m.WinnerID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
