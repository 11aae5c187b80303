package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestRandomChunkSplit_PartitionsChunks(t *testing.T) {
	// GIVEN 10 chunks of 5 samples plus a 3-sample tail
	s := series(53)

	// WHEN 4 are selected for test
	train, test, err := RandomChunkSplit(s, SplitConfig{ChunkSize: 5, TestChunks: 4, Seed: 69})
	require.NoError(t, err)

	// THEN every full chunk lands in exactly one partition and the tail is dropped
	assert.Len(t, test, 4)
	assert.Len(t, train, 6)
	seen := map[float64]bool{}
	for _, c := range append(append([][]float64{}, train...), test...) {
		require.Len(t, c, 5)
		assert.Equal(t, 0.0, float64(int(c[0])%5), "chunks start on a boundary")
		assert.False(t, seen[c[0]])
		seen[c[0]] = true
	}
	assert.Len(t, seen, 10)

	// AND train chunks keep ascending order
	for i := 1; i < len(train); i++ {
		assert.Less(t, train[i-1][0], train[i][0])
	}
}

func TestRandomChunkSplit_DeterministicPerSeed(t *testing.T) {
	s := series(1000)
	cfg := SplitConfig{ChunkSize: 50, TestChunks: 5, Seed: 7}

	_, a, err := RandomChunkSplit(s, cfg)
	require.NoError(t, err)
	_, b, err := RandomChunkSplit(s, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	differs := false
	for seed := int64(8); seed < 20 && !differs; seed++ {
		cfg.Seed = seed
		_, c, err := RandomChunkSplit(s, cfg)
		require.NoError(t, err)
		differs = c[0][0] != a[0][0]
	}
	assert.True(t, differs, "different seeds should eventually select different chunks")
}

func TestRandomChunkSplit_Errors(t *testing.T) {
	s := series(20)
	_, _, err := RandomChunkSplit(s, SplitConfig{ChunkSize: 0, TestChunks: 1})
	assert.Error(t, err)
	_, _, err = RandomChunkSplit(s, SplitConfig{ChunkSize: 5, TestChunks: 5})
	assert.Error(t, err)
	_, _, err = RandomChunkSplit(s, SplitConfig{ChunkSize: 5, TestChunks: -1})
	assert.Error(t, err)
}

func TestTestStream_FlattensSelection(t *testing.T) {
	s := series(100)
	cfg := SplitConfig{ChunkSize: 10, TestChunks: 3, Seed: 1}

	_, test, err := RandomChunkSplit(s, cfg)
	require.NoError(t, err)
	flat, err := TestStream(s, cfg)
	require.NoError(t, err)

	assert.Len(t, flat, 30)
	assert.Equal(t, test[1], flat[10:20])
}

func TestFlatten_Copies(t *testing.T) {
	a, b := []float64{1, 2}, []float64{3}
	out := Flatten([][]float64{a, b})
	out[0] = 99

	assert.Equal(t, []float64{99, 2, 3}, out)
	assert.Equal(t, 1.0, a[0])
	assert.Empty(t, Flatten(nil))
}

func TestSequentialSplit(t *testing.T) {
	train, test, err := SequentialSplit(series(10), 0.7)
	require.NoError(t, err)
	assert.Equal(t, series(7), train)
	assert.Equal(t, []float64{7, 8, 9}, test)

	_, _, err = SequentialSplit(series(10), 1.5)
	assert.Error(t, err)
}
