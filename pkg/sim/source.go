package sim

import (
	"math/rand"
	"time"
)

// Source is the randomness the simulator draws its noise from.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a reproducible source for a non-zero seed and a
// time-seeded one for seed 0.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
