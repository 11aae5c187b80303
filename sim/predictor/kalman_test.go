package predictor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgesim/edgesim/sim"
	"github.com/edgesim/edgesim/sim/internal/testutil"
)

func TestKalmanPredictor_FirstForecastIsPrior(t *testing.T) {
	k, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 3, Horizon: 1}, 3)
	require.NoError(t, err)

	out, err := k.Predict([]float64{10, 10, 10})
	require.NoError(t, err)

	// window contents do not feed the filter; the zero prior does
	assert.Equal(t, []float64{0}, out)
	assert.Equal(t, "KF", k.Name())
}

func TestKalmanPredictor_ConvergesOnConstantSignal(t *testing.T) {
	// GIVEN a filter fed a constant observation
	k, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 4, Horizon: 1}, 4)
	require.NoError(t, err)
	window := testutil.Constant(4, 10)

	// WHEN it alternates predict and update
	var last float64
	for i := 0; i < 200; i++ {
		out, err := k.Predict(window)
		require.NoError(t, err)
		last = out[0]
		k.Update(10)
	}

	// THEN the projected observation settles on the signal
	testutil.AssertFloat64Equal(t, "forecast", 10, last, 0.05)
}

func TestKalmanPredictor_TracksRamp(t *testing.T) {
	k, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 2, Horizon: 1}, 1)
	require.NoError(t, err)

	ramp := testutil.Ramp(300, 100, 0.1)
	var errs []float64
	for _, z := range ramp {
		out, err := k.Predict([]float64{0, 0})
		require.NoError(t, err)
		errs = append(errs, z-out[0])
		k.Update(z)
	}

	// a random-walk model lags a ramp by a bounded amount once settled
	for _, e := range errs[len(errs)-50:] {
		assert.Less(t, e, 2.0)
		assert.Greater(t, e, 0.0)
	}
}

func TestKalmanPredictor_Reset(t *testing.T) {
	k, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 2, Horizon: 1}, 2)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := k.Predict([]float64{0, 0})
		require.NoError(t, err)
		k.Update(50)
	}
	assert.NotEqual(t, []float64{0, 0}, k.State())

	k.Reset()

	assert.Equal(t, []float64{0, 0}, k.State())
	out, err := k.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0])
}

func TestKalmanPredictor_Errors(t *testing.T) {
	_, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 3, Horizon: 2}, 3)
	assert.ErrorIs(t, err, sim.ErrConfiguration)

	_, err = NewKalmanPredictor(sim.WindowConfig{WindowSize: 3, Horizon: 1}, -1)
	assert.ErrorIs(t, err, sim.ErrConfiguration)

	k, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 3, Horizon: 1}, 3)
	require.NoError(t, err)
	_, err = k.Predict([]float64{1})
	assert.ErrorIs(t, err, sim.ErrPrecondition)
}

func TestKalmanPredictor_MatchesScalarRecursion(t *testing.T) {
	// GIVEN a one-dimensional filter and the textbook scalar recursion
	k, err := NewKalmanPredictor(sim.WindowConfig{WindowSize: 1, Horizon: 1}, 1)
	require.NoError(t, err)
	x, p := 0.0, kalmanInitialCovariance

	// WHEN both see the same observations
	for i, z := range []float64{5, 7, 6, 8, 7.5, 9} {
		out, err := k.Predict([]float64{0})
		require.NoError(t, err)
		p += kalmanProcessNoise

		// THEN the forecasts agree step by step
		testutil.AssertFloat64Equal(t, fmt.Sprintf("step %d", i), x, out[0], 1e-9)

		k.Update(z)
		gain := p / (p + kalmanObservationNoise)
		x += gain * (z - x)
		p *= 1 - gain
	}
	testutil.AssertFloat64Equal(t, "state", x, k.State()[0], 1e-9)
}
