package predictor

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/edgesim/edgesim/sim"
)

// DefaultEdgePoints is the number of samples averaged at each end of the window.
const DefaultEdgePoints = 3

// TrendPredictor extrapolates a linear trend estimated from the window edges.
// The slope is the difference between the mean of the last k and the first k
// samples, spread over WindowSize-1 steps; forecasts continue from the trailing mean.
type TrendPredictor struct {
	windowSize int
	horizon    int
	edgePoints int
}

// NewTrendPredictor creates a TrendPredictor. edgePoints is clamped to the window size.
func NewTrendPredictor(wc sim.WindowConfig, edgePoints int) (*TrendPredictor, error) {
	if err := wc.Validate(); err != nil {
		return nil, err
	}
	if wc.WindowSize < 2 {
		return nil, fmt.Errorf("%w: trend slope needs window_size >= 2, got %d", sim.ErrPrecondition, wc.WindowSize)
	}
	if edgePoints < 1 {
		return nil, fmt.Errorf("%w: edge points must be >= 1, got %d", sim.ErrConfiguration, edgePoints)
	}
	if edgePoints > wc.WindowSize {
		edgePoints = wc.WindowSize
	}
	return &TrendPredictor{windowSize: wc.WindowSize, horizon: wc.Horizon, edgePoints: edgePoints}, nil
}

func (t *TrendPredictor) Name() string { return "DBP" }

func (t *TrendPredictor) Predict(window []float64) ([]float64, error) {
	if err := checkWindow(window, t.windowSize); err != nil {
		return nil, err
	}
	head := stat.Mean(window[:t.edgePoints], nil)
	tail := stat.Mean(window[len(window)-t.edgePoints:], nil)
	slope := (tail - head) / float64(t.windowSize-1)

	out := make([]float64, t.horizon)
	for step := range out {
		out[step] = tail + float64(step+1)*slope
	}
	return out, nil
}

func (t *TrendPredictor) Update(float64) {}
