package sample

import "math/rand"

// Source is the abstract random-number interface the sampler draws from:
// a single uniform-integer primitive. *math/rand.Rand already satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSeededSource returns a Source backed by a seeded math/rand generator,
// for reproducible sampling runs.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
