// Package random provides the seeded pseudo-random stream shared by the
// simulation packages.
package random

import (
	"math"
	"math/rand"
	"sync"
)

// Stream is a deterministic pseudo-random source.
// Draws are serialized with a mutex so one stream can be handed to several
// call sites without data races; each simulator owns its own stream.
type Stream struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// New creates a stream seeded with seed.
func New(seed int64) *Stream {
	return &Stream{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	s.mu.Lock()
	v := s.rng.Float64()
	s.mu.Unlock()
	return v
}

// Bounded returns floor(Float64() * max), a value in [0, max).
// Returns 0 when max is 0.
func (s *Stream) Bounded(max uint32) uint32 {
	if max == 0 {
		return 0
	}
	v := uint32(s.Float64() * float64(max))
	if v >= max {
		v = max - 1
	}
	return v
}

// Between returns a value in [lo, hi).
func (s *Stream) Between(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Angle returns a uniformly random direction in radians, [0, 2π).
func (s *Stream) Angle() float64 {
	return s.Float64() * 2 * math.Pi
}

// Pick returns a or b with equal probability.
func (s *Stream) Pick(a, b float64) float64 {
	if s.Float64() > 0.5 {
		return a
	}
	return b
}
