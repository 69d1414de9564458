package game

import "math/rand"

// Hitbox sizes used for server-side pickup validation. The player box is
// the sprite's collision size, not its drawn size.
const (
	playerWidth  = 48
	playerHeight = 48
	coinWidth    = 30
	coinHeight   = 30
)

type Platform struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultPlatforms is the fixed arena layout shared by every room: the
// ground plus three floating platforms on a 1000x700 canvas.
var DefaultPlatforms = []Platform{
	{X: 0, Y: 650, Width: 1000, Height: 25},
	{X: 120, Y: 520, Width: 260, Height: 25},
	{X: 500, Y: 440, Width: 260, Height: 25},
	{X: 350, Y: 320, Width: 200, Height: 25},
}

// randomCoinPosition places the coin on a random platform, a little above
// the surface so the sprite does not clip into it.
func randomCoinPosition(rng *rand.Rand) Vec {
	p := DefaultPlatforms[rng.Intn(len(DefaultPlatforms))]
	return Vec{
		X: p.X + rng.Float64()*(p.Width-coinWidth),
		Y: p.Y - coinHeight - 5,
	}
}

// coinOverlap reports whether a player hitbox at pos overlaps the coin
// hitbox at coinPos (axis-aligned bounding boxes).
func coinOverlap(pos, coinPos Vec) bool {
	return pos.X < coinPos.X+coinWidth &&
		pos.X+playerWidth > coinPos.X &&
		pos.Y < coinPos.Y+coinHeight &&
		pos.Y+playerHeight > coinPos.Y
}
