package predictor

import (
	"fmt"

	"github.com/llm-inferno/kalman-filter/pkg/core"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/edgesim/edgesim/sim"
)

// Fixed noise model of the filter.
const (
	kalmanInitialCovariance = 10.0
	kalmanProcessNoise      = 0.001
	kalmanObservationNoise  = 1.0 / 10
)

// KalmanPredictor is a linear Kalman filter forecasting one step ahead.
// The state is a d-dimensional random walk (F = I) observed through the
// uniform average H = [1/d ... 1/d]. Predict runs the time update and returns
// H·x; Update runs the measurement update with the newest buffer value.
// The window contents are not used beyond the length check: the filter's
// belief is built entirely from Update calls.
//
// Thread-safety: NOT thread-safe, and its state is tied to one stream.
// Create one instance per run, or Reset it between unrelated episodes.
type KalmanPredictor struct {
	dim        int
	windowSize int

	kf *core.KalmanFilterND
	h  *mat.VecDense // observation row, for projecting the state
	q  *mat.Dense    // process noise covariance
	r  *mat.Dense    // observation noise covariance (1x1)
}

// NewKalmanPredictor creates a filter with a state vector of dimension stateDim
// for windows of wc.WindowSize samples. The horizon must be 1.
func NewKalmanPredictor(wc sim.WindowConfig, stateDim int) (*KalmanPredictor, error) {
	if err := wc.Validate(); err != nil {
		return nil, err
	}
	if wc.Horizon != 1 {
		return nil, fmt.Errorf("%w: kalman predictor only forecasts one step, horizon is %d",
			sim.ErrConfiguration, wc.Horizon)
	}
	if stateDim < 1 {
		return nil, fmt.Errorf("%w: kalman state dimension must be >= 1, got %d", sim.ErrConfiguration, stateDim)
	}
	k := &KalmanPredictor{dim: stateDim, windowSize: wc.WindowSize}
	if err := k.rebuild(); err != nil {
		return nil, err
	}
	return k, nil
}

// rebuild creates a fresh filter: zero state, initial covariance and noise models.
func (k *KalmanPredictor) rebuild() error {
	d := k.dim
	kf, err := core.NewKalmanFilterND(d, 1, nil, identity(d, kalmanInitialCovariance))
	if err != nil {
		return fmt.Errorf("%w: creating kalman filter: %v", sim.ErrConfiguration, err)
	}
	hData := make([]float64, d)
	for j := range hData {
		hData[j] = 1 / float64(d)
	}
	if err := kf.SetH(mat.NewDense(1, d, hData)); err != nil {
		return fmt.Errorf("%w: setting observation model: %v", sim.ErrConfiguration, err)
	}
	k.kf = kf
	k.h = mat.NewVecDense(d, hData)
	k.q = identity(d, kalmanProcessNoise)
	k.r = mat.NewDense(1, 1, []float64{kalmanObservationNoise})
	return nil
}

// Reset reseeds the filter to its initial belief.
func (k *KalmanPredictor) Reset() {
	// Dimensions were validated at construction, so rebuilding cannot fail.
	if err := k.rebuild(); err != nil {
		logrus.Errorf("kalman reset: %v", err)
	}
}

func (k *KalmanPredictor) Name() string { return "KF" }

// Predict advances the belief one step (x = Fx, P = FPFᵀ + Q) and returns the
// projected observation.
func (k *KalmanPredictor) Predict(window []float64) ([]float64, error) {
	if err := checkWindow(window, k.windowSize); err != nil {
		return nil, err
	}
	if err := k.kf.Predict(k.q); err != nil {
		return nil, fmt.Errorf("kalman time update: %w", err)
	}
	return []float64{mat.Dot(k.h, k.kf.State())}, nil
}

// Update corrects the belief with observation z.
func (k *KalmanPredictor) Update(z float64) {
	if err := k.kf.Update(mat.NewVecDense(1, []float64{z}), k.r); err != nil {
		logrus.Warnf("kalman measurement update skipped: %v", err)
	}
}

// State returns a copy of the current state estimate.
func (k *KalmanPredictor) State() []float64 {
	out := make([]float64, k.dim)
	copy(out, k.kf.State().RawVector().Data)
	return out
}

func identity(n int, scale float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		m.Set(j, j, scale)
	}
	return m
}
