package sim

import (
	"fmt"

	"github.com/edgesim/edgesim/sim/trace"
)

// RunConfig groups the parameters of one simulation run.
type RunConfig struct {
	Dataset      string // label copied into the metrics record
	Seed         int64  // seed that selected the stream upstream; opaque to the engine
	Window       WindowConfig
	ErrorPercent int // tolerance as a percentage of the true value
	Realign      RealignPolicy
	Alpha        float64 // damping for scaled-distance, in [0, 1]

	// ResetPredictor calls Reset on predictors implementing Resetter before
	// the first step, for runs that are not a continuation of a previous stream.
	ResetPredictor bool

	// Trace, when enabled, receives one record per decision.
	Trace *trace.SimulationTrace
}

// DefaultAlpha is used when a run does not set Alpha explicitly.
const DefaultAlpha = 1.0

// validate checks the configuration against the engine's accepted policies and the stream.
func (cfg RunConfig) validate(allowed map[RealignPolicy]bool, engine string, streamLen int) error {
	if err := cfg.Window.Validate(); err != nil {
		return err
	}
	if cfg.ErrorPercent < 0 {
		return fmt.Errorf("%w: error percent must be non-negative, got %d", ErrConfiguration, cfg.ErrorPercent)
	}
	if err := checkPolicy(cfg.Realign, allowed, engine); err != nil {
		return err
	}
	if cfg.Realign == RealignScaledDistance && (cfg.Alpha < 0 || cfg.Alpha > 1) {
		return fmt.Errorf("%w: alpha must be in [0, 1], got %v", ErrConfiguration, cfg.Alpha)
	}
	if cfg.Realign == RealignLerp && cfg.Window.WindowSize < 2 {
		return fmt.Errorf("%w: lerp realignment needs window_size >= 2, got %d", ErrPrecondition, cfg.Window.WindowSize)
	}
	if streamLen < cfg.Window.WindowSize {
		return fmt.Errorf("%w: stream of %d samples is shorter than window_size %d",
			ErrPrecondition, streamLen, cfg.Window.WindowSize)
	}
	return nil
}

// tolerance returns the half-width of the acceptance interval around yReal.
func tolerance(yReal float64, errorPercent int) float64 {
	eps := yReal * float64(errorPercent) / 100
	if eps < 0 {
		return -eps
	}
	return eps
}

// withinBound reports whether yPred lies in [yReal-eps, yReal+eps].
func withinBound(yPred, yReal, eps float64) bool {
	return yPred >= yReal-eps && yPred <= yReal+eps
}
