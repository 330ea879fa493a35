// Package rng is the session's deterministic random source. Its entire state
// is two 64-bit halves, so it can be checkpointed and restored exactly.
package rng

import (
	"encoding/binary"
	"math/rand/v2"
)

// Source is a PCG generator with an observable state.
type Source struct {
	pcg *rand.PCG
	r   *rand.Rand
}

// New returns a source seeded from a single session seed.
func New(seed uint64) *Source {
	hi, lo := Split(seed)
	return NewState(hi, lo)
}

// NewState returns a source whose state is exactly (hi, lo).
func NewState(hi, lo uint64) *Source {
	pcg := rand.NewPCG(hi, lo)
	return &Source{pcg: pcg, r: rand.New(pcg)}
}

// Split derives the two state halves from a session seed.
func Split(seed uint64) (hi, lo uint64) {
	return seed, seed ^ 0x9e3779b97f4a7c15
}

// Seed resets the state from a session seed.
func (s *Source) Seed(seed uint64) {
	hi, lo := Split(seed)
	s.pcg.Seed(hi, lo)
}

// State returns both halves of the current state.
func (s *Source) State() (hi, lo uint64) {
	b, err := s.pcg.MarshalBinary()
	if err != nil || len(b) < 20 {
		panic("rng: unexpected PCG state encoding")
	}
	// "pcg:" followed by the big-endian high and low words.
	return binary.BigEndian.Uint64(b[4:12]), binary.BigEndian.Uint64(b[12:20])
}

// Restore sets the state to (hi, lo) as returned by State.
func (s *Source) Restore(hi, lo uint64) {
	s.pcg.Seed(hi, lo)
}

// Uint64 returns a uniformly distributed 64-bit value.
func (s *Source) Uint64() uint64 { return s.r.Uint64() }

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 { return s.r.Float64() }

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int { return s.r.IntN(n) }

// Range returns a value in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// Angle returns an angle in degrees in [0, 360).
func (s *Source) Angle() float64 {
	return 360 * s.r.Float64()
}

// Spread returns an angle in degrees within ±width/2 of center.
func (s *Source) Spread(center, width float64) float64 {
	return center + s.Range(-width/2, width/2)
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Sign returns -1 or 1 with equal probability.
func (s *Source) Sign() float64 {
	if s.r.Uint64()&1 == 0 {
		return -1
	}
	return 1
}
