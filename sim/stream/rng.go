package stream

import "math/rand"

// NewPartitionRNG returns the RNG that selects test chunks for seed.
// The seed is used directly, so a seed always picks the same test chunks.
//
// Thread-safety: NOT thread-safe. Use one instance per split.
func NewPartitionRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
