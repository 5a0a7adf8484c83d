package des

import (
	"math/rand/v2"
	"time"
)

// RNG is the single source of randomness for a simulation run: jitter
// samples on channels, and anything test helpers need. Seeded once at
// Builder.Build time; reseeding requires an explicit call.
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a new RNG from seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Reseed replaces the underlying generator's state.
func (g *RNG) Reseed(seed uint64) {
	g.r = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Float64 returns a pseudo-random number in [0,1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// Duration returns a pseudo-random duration uniformly distributed in
// [0, max). Used to sample channel jitter.
func (g *RNG) Duration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(g.r.Int64N(int64(max)))
}

// Uint64 returns a pseudo-random uint64, useful for seeding per-module
// generators deterministically from the simulation's single RNG.
func (g *RNG) Uint64() uint64 { return g.r.Uint64() }
