package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

func (c *Coordinator) startGame(roomID, userID string) error {
	room := c.rooms[roomID]
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Started {
		return ErrAlreadyStarted
	}
	if len(room.Members) != 2 {
		return ErrInsufficientPlayers
	}
	if room.CreatorID != userID {
		return ErrUnauthorized
	}

	now := time.Now()
	room.Started = true
	match := &MatchState{
		Player1:   PlayerScore{UserID: room.Members[0].UserID},
		Player2:   PlayerScore{UserID: room.Members[1].UserID},
		Stage:     StageCountdown,
		StartedAt: now,
		Deadline:  now.Add(c.cfg.Countdown + c.cfg.MatchDuration),
	}
	c.matches[roomID] = match
	c.coins[roomID] = &CoinState{Position: randomCoinPosition(c.rng), Active: true}

	log.Info().
		Str("room_id", roomID).
		Str("player1", match.Player1.UserID).
		Str("player2", match.Player2.UserID).
		Msg("match_start")

	c.emitRoom(room, GameStartingEvent{
		Type:      "gameStarting",
		RoomID:    roomID,
		Countdown: int(c.cfg.Countdown / time.Second),
	})
	c.after(c.cfg.Countdown, func() { c.beginPlaying(roomID) })
	c.after(c.cfg.Countdown+c.cfg.MatchDuration, func() { c.endMatch(roomID) })

	// The room is no longer joinable.
	c.broadcastRoomList()
	return nil
}

// beginPlaying fires when the countdown elapses. The room may have been
// destroyed in the meantime, so existence is re-checked here.
func (c *Coordinator) beginPlaying(roomID string) {
	room := c.rooms[roomID]
	match := c.matches[roomID]
	coin := c.coins[roomID]
	if room == nil || match == nil || match.Finished {
		return
	}
	match.Stage = StagePlaying

	c.emitRoom(room, GameStartedEvent{
		Type:      "gameStarted",
		RoomID:    roomID,
		GameState: matchView(match),
		CoinState: coinView(coin),
		Platforms: DefaultPlatforms,
	})
}

// recordClick credits one point while the match is playing. Late or stray
// clicks are dropped silently; jitter makes them routine.
func (c *Coordinator) recordClick(roomID, userID string) {
	match := c.matches[roomID]
	if match == nil || match.Finished || match.Stage != StagePlaying {
		return
	}
	if !c.credit(match, userID) {
		return
	}
	c.emitScores(roomID, match)
}

// collectCoin validates a pickup claim against the coin hitbox. The credit
// and the deactivation happen in this one handler step, so a second claim
// against the same activation can never pay out.
func (c *Coordinator) collectCoin(roomID, userID string, pos Vec) {
	match := c.matches[roomID]
	coin := c.coins[roomID]
	if match == nil || match.Finished || match.Stage != StagePlaying {
		return
	}
	if coin == nil || !coin.Active {
		return
	}
	if !coinOverlap(pos, coin.Position) {
		return
	}
	if !c.credit(match, userID) {
		return
	}
	coin.Active = false

	c.emitScores(roomID, match)
	c.emitCoin(roomID, coin)
	c.after(c.cfg.CoinRespawnDelay, func() { c.respawnCoin(roomID) })
}

func (c *Coordinator) respawnCoin(roomID string) {
	match := c.matches[roomID]
	coin := c.coins[roomID]
	if match == nil || match.Finished || coin == nil || coin.Active {
		return
	}
	coin.Position = randomCoinPosition(c.rng)
	coin.Active = true
	c.emitCoin(roomID, coin)
}

// endMatch fires at the deadline. It flips Finished exactly once, hands the
// snapshot to the result sink off-loop, and rejoins via finishMatch.
func (c *Coordinator) endMatch(roomID string) {
	match := c.matches[roomID]
	if match == nil || match.Finished {
		return
	}
	match.Finished = true
	match.Stage = StageEnded

	winner := ""
	if match.Player1.Score > match.Player2.Score {
		winner = match.Player1.UserID
	} else if match.Player2.Score > match.Player1.Score {
		winner = match.Player2.UserID
	}
	snapshot := *match

	log.Info().
		Str("room_id", roomID).
		Int("player1_score", snapshot.Player1.Score).
		Int("player2_score", snapshot.Player2.Score).
		Str("winner", winner).
		Msg("match_end")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		recordID, err := c.persistResult(ctx, snapshot, winner)
		c.dispatch(func() { c.finishMatch(roomID, winner, recordID, err) })
	}()
}

// persistResult runs off the coordinator goroutine against the snapshot
// only. One attempt; the caller decides what a failure means.
func (c *Coordinator) persistResult(ctx context.Context, m MatchState, winner string) (string, error) {
	recordID, err := c.sink.RecordMatch(ctx,
		m.Player1.UserID, m.Player2.UserID,
		m.Player1.Score, m.Player2.Score,
		winner,
	)
	if err != nil {
		return "", err
	}

	switch winner {
	case "":
		if err := c.sink.IncrementPlayed(ctx, m.Player1.UserID); err != nil {
			return recordID, err
		}
		if err := c.sink.IncrementPlayed(ctx, m.Player2.UserID); err != nil {
			return recordID, err
		}
	case m.Player1.UserID:
		if err := c.sink.IncrementWin(ctx, m.Player1.UserID, m.Player1.Score); err != nil {
			return recordID, err
		}
		if err := c.sink.IncrementLoss(ctx, m.Player2.UserID); err != nil {
			return recordID, err
		}
	default:
		if err := c.sink.IncrementWin(ctx, m.Player2.UserID, m.Player2.Score); err != nil {
			return recordID, err
		}
		if err := c.sink.IncrementLoss(ctx, m.Player1.UserID); err != nil {
			return recordID, err
		}
	}
	return recordID, nil
}

// finishMatch rejoins the persistence result on the coordinator goroutine.
// Teardown happens on both paths; a failed write only changes what the
// members are told.
func (c *Coordinator) finishMatch(roomID, winner, recordID string, err error) {
	room := c.rooms[roomID]
	match := c.matches[roomID]
	if match == nil {
		return
	}

	if room != nil {
		if err != nil {
			log.Error().Err(err).Str("room_id", roomID).Msg("persist_failed")
			c.emitRoom(room, errorEvent(ErrPersistenceFailure))
		} else {
			c.emitRoom(room, GameEndedEvent{
				Type:      "gameEnded",
				RoomID:    roomID,
				GameState: matchView(match),
				Winner:    winner,
				GameID:    recordID,
			})
		}
	}

	c.destroyRoom(roomID)
	c.broadcastRoomList()
}

// credit bumps the caller's score; false when the user is not a player.
func (c *Coordinator) credit(match *MatchState, userID string) bool {
	switch userID {
	case match.Player1.UserID:
		match.Player1.Score++
	case match.Player2.UserID:
		match.Player2.Score++
	default:
		return false
	}
	return true
}

func (c *Coordinator) emitScores(roomID string, match *MatchState) {
	room := c.rooms[roomID]
	if room == nil {
		return
	}
	c.emitRoom(room, ScoreUpdateEvent{
		Type:         "scoreUpdate",
		RoomID:       roomID,
		Player1Score: match.Player1.Score,
		Player2Score: match.Player2.Score,
	})
}

func (c *Coordinator) emitCoin(roomID string, coin *CoinState) {
	room := c.rooms[roomID]
	if room == nil {
		return
	}
	c.emitRoom(room, CoinUpdateEvent{
		Type:     "coinUpdate",
		RoomID:   roomID,
		Position: coin.Position,
		Active:   coin.Active,
	})
}
