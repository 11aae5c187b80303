package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edgesim/edgesim/sim/trace"
)

// SimulateMultiStep runs the multi-step suppression algorithm (DLDS) over stream.
//
// Each iteration forecasts Window.Horizon values and decides on the last one only:
// if it is within ErrorPercent of the true value the whole horizon is suppressed
// and the forecasts enter the buffer; otherwise the last point is transmitted, the
// earlier Horizon-1 points still count as suppressed, and the buffer is realigned.
//
// Accounting on transmit is asymmetric: the transmitted point's
// forecast error is not accumulated, the other Horizon-1 errors are.
//
// The predictor is never updated; multi-step predictors are stateless.
func SimulateMultiStep(stream []float64, p Predictor, cfg RunConfig) (*Metrics, error) {
	if err := cfg.validate(multiStepPolicies, "multi-step", len(stream)); err != nil {
		return nil, err
	}
	ws, ts := cfg.Window.WindowSize, cfg.Window.Horizon
	logrus.Infof("Starting multi-step simulation: dataset=%q predictor=%s %v error=%d%% realign=%s samples=%d",
		cfg.Dataset, p.Name(), cfg.Window, cfg.ErrorPercent, cfg.Realign, len(stream))

	buf, err := NewSlidingBuffer(stream[:ws])
	if err != nil {
		return nil, err
	}
	if r, ok := p.(Resetter); ok && cfg.ResetPredictor {
		r.Reset()
	}

	m := newMetrics(cfg, p, len(stream))
	prog := newProgress("multi-step", len(stream))
	window := make([]float64, ws)

	for idx := ws; idx+ts < len(stream); idx += ts {
		prog.update(idx)

		window = buf.Snapshot(window)
		yPred, err := p.Predict(window)
		if err != nil {
			return nil, fmt.Errorf("predict at index %d: %w", idx, err)
		}
		if len(yPred) != ts {
			return nil, fmt.Errorf("%w: predictor %s returned %d forecasts, horizon is %d",
				ErrPrecondition, p.Name(), len(yPred), ts)
		}
		m.InferencesCount++

		// Per-offset errors are only accumulated once the decision is known.
		actuals := stream[idx : idx+ts]

		yReal := stream[idx+ts-1]
		m.SensingCount++

		eps := tolerance(yReal, cfg.ErrorPercent)
		transmitted := !withinBound(yPred[ts-1], yReal, eps)
		if transmitted {
			m.SendCount++
			m.SkipCount += ts - 1
			for i := 0; i < ts-1; i++ {
				m.addError(actuals[i], yPred[i])
			}
			if err := realignMulti(buf, cfg.Realign, yPred, yReal); err != nil {
				return nil, err
			}
		} else {
			m.SkipCount += ts
			for i := 0; i < ts; i++ {
				m.addError(actuals[i], yPred[i])
			}
			for _, v := range yPred {
				buf.Push(v)
			}
		}

		if cfg.Trace.Enabled() {
			cfg.Trace.RecordDecision(trace.DecisionRecord{
				Step:        m.Iterations,
				Index:       idx + ts - 1,
				Actual:      yReal,
				Predicted:   yPred[ts-1],
				Tolerance:   eps,
				Transmitted: transmitted,
				Buffered:    buf.Newest(),
			})
		}
		m.Iterations++
	}

	logrus.Debugf("Multi-step simulation complete: iterations=%d sent=%d skipped=%d error_acc=%g",
		m.Iterations, m.SendCount, m.SkipCount, m.ErrorAcc)
	return m, nil
}
