package stream

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPartitionRNG_UsesSeedDirectly(t *testing.T) {
	// BDD: the partition RNG reproduces rand.NewSource(seed) exactly
	got := NewPartitionRNG(69).Perm(10)
	want := rand.New(rand.NewSource(69)).Perm(10)
	assert.Equal(t, want, got)
}

func TestNewPartitionRNG_Deterministic(t *testing.T) {
	// BDD: two instances with the same seed draw the same sequence
	a, b := NewPartitionRNG(42), NewPartitionRNG(42)
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
}
