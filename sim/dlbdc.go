package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edgesim/edgesim/sim/trace"
)

// SimulateSingleStep runs the single-step suppression algorithm (DLBDC) over stream.
//
// The first Window.WindowSize samples seed the buffer. Every following sample is
// forecast one step ahead from the buffer; a forecast within ErrorPercent of the
// true value is suppressed and replaces the sample in the buffer, otherwise the
// sample is transmitted and the buffer is realigned with cfg.Realign.
// After each decision the predictor is updated with the newest buffer value.
func SimulateSingleStep(stream []float64, p Predictor, cfg RunConfig) (*Metrics, error) {
	if err := cfg.validate(singleStepPolicies, "single-step", len(stream)); err != nil {
		return nil, err
	}
	ws := cfg.Window.WindowSize
	logrus.Infof("Starting single-step simulation: dataset=%q predictor=%s %v error=%d%% realign=%s alpha=%.2f samples=%d",
		cfg.Dataset, p.Name(), cfg.Window, cfg.ErrorPercent, cfg.Realign, cfg.Alpha, len(stream))

	buf, err := NewSlidingBuffer(stream[:ws])
	if err != nil {
		return nil, err
	}
	if r, ok := p.(Resetter); ok && cfg.ResetPredictor {
		r.Reset()
	}

	m := newMetrics(cfg, p, len(stream))
	prog := newProgress("single-step", len(stream))
	window := make([]float64, ws)

	for idx := ws; idx < len(stream); idx++ {
		prog.update(idx)

		yReal := stream[idx]
		m.SensingCount++

		window = buf.Snapshot(window)
		forecast, err := p.Predict(window)
		if err != nil {
			return nil, fmt.Errorf("predict at index %d: %w", idx, err)
		}
		if len(forecast) == 0 {
			return nil, fmt.Errorf("%w: predictor %s returned no forecast at index %d", ErrPrecondition, p.Name(), idx)
		}
		yPred := forecast[0]
		m.InferencesCount++

		eps := tolerance(yReal, cfg.ErrorPercent)
		transmitted := !withinBound(yPred, yReal, eps)
		if transmitted {
			m.SendCount++
			if err := realignSingle(buf, cfg.Realign, yReal, cfg.Alpha); err != nil {
				return nil, err
			}
		} else {
			m.SkipCount++
			m.addError(yReal, yPred)
			buf.Push(yPred)
		}

		p.Update(buf.Newest())

		if cfg.Trace.Enabled() {
			cfg.Trace.RecordDecision(trace.DecisionRecord{
				Step:        m.Iterations,
				Index:       idx,
				Actual:      yReal,
				Predicted:   yPred,
				Tolerance:   eps,
				Transmitted: transmitted,
				Buffered:    buf.Newest(),
			})
		}
		m.Iterations++
	}

	logrus.Debugf("Single-step simulation complete: sent=%d skipped=%d error_acc=%g", m.SendCount, m.SkipCount, m.ErrorAcc)
	return m, nil
}
