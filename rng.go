package gbgp

import (
	"math/rand"
	"time"
)

// Rand is the single stochastic stream an Environment (and any tree
// operation invoked on its behalf) draws from. Every call that needs
// randomness takes one explicitly rather than reaching for a process-wide
// source, so that a seeded Rand makes an entire run reproducible.
type Rand struct {
	r *rand.Rand
}

// NewRand creates a Rand seeded with the given value. The same seed always
// produces the same sequence of derivations, selections, crossover points,
// and mutation decisions.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// NewRandFromTime creates a Rand seeded from the current time. Runs created
// this way are not reproducible; prefer NewRand with an explicit seed for
// anything that needs to be replayed.
func NewRandFromTime() *Rand {
	return NewRand(time.Now().UnixNano())
}

// Intn returns a non-negative pseudo-random int in [0,n).
func (r *Rand) Intn(n int) int {
	return r.r.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0,1.0).
func (r *Rand) Float64() float64 {
	return r.r.Float64()
}
