package simcore

import "math/rand/v2"

// RNG is the shared deterministic random source used for every per-operation
// random draw in the simulation (dodge rolls, critical rolls, aim error,
// homing dither, spawn offsets) — spec §5, "Determinism": "given identical
// tick inputs and identical RNG seed, simulation state advances identically
// across runs."
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a deterministic RNG. The same seed pair always produces the
// same draw sequence, regardless of platform.
func NewRNG(seed1, seed2 uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Float64 returns a uniform draw in [0,1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// IntN returns a uniform draw in [0,n).
func (g *RNG) IntN(n int) int { return g.r.IntN(n) }

// Range returns a uniform draw in [lo,hi].
func (g *RNG) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Float64()*(hi-lo)
}

// Percent rolls a 1-100 inclusive integer percentage, the unit used by the
// collision resolver's dodge/block/critical checks (spec §4.4).
func (g *RNG) Percent() int { return 1 + g.r.IntN(100) }

// Sign returns -1 or 1 with equal probability, used for symmetric dither.
func (g *RNG) Sign() float64 {
	if g.r.IntN(2) == 0 {
		return -1
	}
	return 1
}
