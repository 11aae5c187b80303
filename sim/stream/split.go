package stream

import "fmt"

// Defaults of the random chunk split.
const (
	DefaultChunkSize  = 500
	DefaultTestChunks = 10
)

// SplitConfig parameterizes RandomChunkSplit.
type SplitConfig struct {
	ChunkSize  int
	TestChunks int
	Seed       int64
}

// RandomChunkSplit cuts series into consecutive chunks of ChunkSize samples
// (dropping the incomplete tail) and picks TestChunks of them without replacement
// using the partition RNG of Seed (NewPartitionRNG). Test chunks keep their selection order,
// train chunks keep ascending order.
func RandomChunkSplit(series []float64, cfg SplitConfig) (train, test [][]float64, err error) {
	if cfg.ChunkSize < 1 {
		return nil, nil, fmt.Errorf("chunk size must be >= 1, got %d", cfg.ChunkSize)
	}
	chunkNum := len(series) / cfg.ChunkSize
	if cfg.TestChunks < 0 || cfg.TestChunks > chunkNum {
		return nil, nil, fmt.Errorf("cannot select %d test chunks out of %d", cfg.TestChunks, chunkNum)
	}

	rng := NewPartitionRNG(cfg.Seed)
	picked := rng.Perm(chunkNum)[:cfg.TestChunks]
	isTest := make(map[int]bool, len(picked))
	for _, i := range picked {
		isTest[i] = true
		test = append(test, series[i*cfg.ChunkSize:(i+1)*cfg.ChunkSize])
	}
	for i := 0; i < chunkNum; i++ {
		if !isTest[i] {
			train = append(train, series[i*cfg.ChunkSize:(i+1)*cfg.ChunkSize])
		}
	}
	return train, test, nil
}

// SequentialSplit splits series at trainRatio: the head trains, the tail tests.
func SequentialSplit(series []float64, trainRatio float64) (train, test []float64, err error) {
	if trainRatio < 0 || trainRatio > 1 {
		return nil, nil, fmt.Errorf("train ratio must be in [0, 1], got %v", trainRatio)
	}
	cut := int(float64(len(series)) * trainRatio)
	return series[:cut], series[cut:], nil
}

// Flatten concatenates chunks into a single stream, copying the samples.
func Flatten(chunks [][]float64) []float64 {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]float64, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// TestStream loads the test partition for a seed in one call: random chunk split, then flatten.
func TestStream(series []float64, cfg SplitConfig) ([]float64, error) {
	_, test, err := RandomChunkSplit(series, cfg)
	if err != nil {
		return nil, err
	}
	return Flatten(test), nil
}
