// Package predictor provides the forecasting models driven by the suppression engines.
// The Predictor interface is defined in sim/ (parent package); this package
// provides the linear-trend extrapolator, the Kalman filter and the learned model.
package predictor

import (
	"fmt"

	"github.com/edgesim/edgesim/sim"
)

// Kind names a predictor implementation.
type Kind string

const (
	KindTrend   Kind = "trend"
	KindKalman  Kind = "kalman"
	KindLearned Kind = "learned"
)

// ValidKinds is the set of recognized predictor names.
var ValidKinds = map[Kind]bool{KindTrend: true, KindKalman: true, KindLearned: true}

// Config selects and parameterizes a predictor.
// Fields irrelevant to the selected Kind are ignored.
type Config struct {
	Kind       Kind
	Window     sim.WindowConfig
	EdgePoints int // trend: samples averaged at each window edge

	StateDim int // kalman: dimension of the state vector

	Model     string // learned: model identifier
	ModelsDir string // learned: root of the artifact tree
	Dataset   string // learned: dataset the model was trained on
	Seed      int64  // learned: training seed
}

// New builds a fresh predictor from cfg. Each call returns a private instance,
// so stateful predictors are never shared between runs.
func New(cfg Config) (sim.Predictor, error) {
	switch cfg.Kind {
	case KindTrend:
		edge := cfg.EdgePoints
		if edge == 0 {
			edge = DefaultEdgePoints
		}
		return NewTrendPredictor(cfg.Window, edge)
	case KindKalman:
		dim := cfg.StateDim
		if dim == 0 {
			dim = cfg.Window.WindowSize
		}
		return NewKalmanPredictor(cfg.Window, dim)
	case KindLearned:
		key := ModelKey{Model: cfg.Model, Dataset: cfg.Dataset, Window: cfg.Window, Seed: cfg.Seed}
		return LoadLearnedPredictor(cfg.ModelsDir, key)
	default:
		return nil, fmt.Errorf("%w: unknown predictor %q", sim.ErrConfiguration, cfg.Kind)
	}
}

func checkWindow(window []float64, want int) error {
	if len(window) != want {
		return fmt.Errorf("%w: window has %d samples, want %d", sim.ErrPrecondition, len(window), want)
	}
	return nil
}
