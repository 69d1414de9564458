package game

import "errors"

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrRoomNotFound        = errors.New("room_not_found")
	ErrRoomFull            = errors.New("room_full")
	ErrAlreadyStarted      = errors.New("already_started")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientPlayers = errors.New("insufficient_players")
	ErrPersistenceFailure  = errors.New("persistence_failure")
)
