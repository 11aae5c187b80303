package sim

import (
	"errors"
	"fmt"
	"math/rand"
)

// meanPredictor forecasts the window mean for every horizon step and records
// the window lengths it was called with.
type meanPredictor struct {
	horizon     int
	windowSizes []int
	updates     []float64
}

func (m *meanPredictor) Name() string { return "mean" }

func (m *meanPredictor) Predict(window []float64) ([]float64, error) {
	m.windowSizes = append(m.windowSizes, len(window))
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	out := make([]float64, m.horizon)
	for i := range out {
		out[i] = sum / float64(len(window))
	}
	return out, nil
}

func (m *meanPredictor) Update(sample float64) { m.updates = append(m.updates, sample) }

// constPredictor always forecasts the same value.
type constPredictor struct {
	value   float64
	horizon int
	resets  int
}

func (c *constPredictor) Name() string { return fmt.Sprintf("const(%g)", c.value) }

func (c *constPredictor) Predict([]float64) ([]float64, error) {
	out := make([]float64, c.horizon)
	for i := range out {
		out[i] = c.value
	}
	return out, nil
}

func (c *constPredictor) Update(float64) {}

func (c *constPredictor) Reset() { c.resets++ }

// lastValuePredictor repeats the newest sample: a stateless, data-dependent predictor.
type lastValuePredictor struct{ horizon int }

func (l lastValuePredictor) Name() string { return "last" }

func (l lastValuePredictor) Predict(window []float64) ([]float64, error) {
	out := make([]float64, l.horizon)
	for i := range out {
		out[i] = window[len(window)-1]
	}
	return out, nil
}

func (l lastValuePredictor) Update(float64) {}

var errBroken = errors.New("model exploded")

// failingPredictor always errors.
type failingPredictor struct{}

func (failingPredictor) Name() string                         { return "failing" }
func (failingPredictor) Predict([]float64) ([]float64, error) { return nil, errBroken }
func (failingPredictor) Update(float64)                       {}

// noisyStream returns a strictly positive random walk.
func noisyStream(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	v := 400.0
	for i := range out {
		v += rng.NormFloat64() * 8
		if v < 50 {
			v = 50
		}
		out[i] = v
	}
	return out
}

// seqPredictor returns a copy of a fixed forecast vector.
type seqPredictor struct{ forecast []float64 }

func (s *seqPredictor) Name() string { return "seq" }

func (s *seqPredictor) Predict([]float64) ([]float64, error) {
	out := make([]float64, len(s.forecast))
	copy(out, s.forecast)
	return out, nil
}

func (s *seqPredictor) Update(float64) {}
