package util

import (
	"math/rand"
	"time"
)

// NewRand returns a seeded generator. Seed 0 means "pick one from the clock",
// which is how unseeded matches get a fresh roster every time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
