package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// GameConfig holds the match timing knobs. Defaults match the shipped
// client: a 3 second countdown, a 60 second match, and a coin that comes
// back half a second after being collected.
type GameConfig struct {
	Countdown        time.Duration `env:"GAME_COUNTDOWN" envDefault:"3s"`
	MatchDuration    time.Duration `env:"GAME_MATCH_DURATION" envDefault:"60s"`
	CoinRespawnDelay time.Duration `env:"GAME_COIN_RESPAWN_DELAY" envDefault:"500ms"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
