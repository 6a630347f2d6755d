package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultDepth is the ply limit used when a driver does not ask for one.
const DefaultDepth = 2

// Config controls a Game. The zero value is usable: depth 0 searches one ply,
// seed 0 picks a time-based seed and the zero Logger discards output.
type Config struct {
	Depth  int
	Seed   uint64
	Logger zerolog.Logger
}

// DefaultConfig returns depth 2, a time-based seed and a disabled logger.
func DefaultConfig() Config {
	return Config{
		Depth:  DefaultDepth,
		Logger: zerolog.Nop(),
	}
}

func (c Config) seed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}
