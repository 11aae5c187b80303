package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledDistance_Endpoints(t *testing.T) {
	assert.Equal(t, 20.0, ScaledDistance(10, 20, 1))
	assert.Equal(t, 10.0, ScaledDistance(10, 20, 0))
	assert.Equal(t, 15.0, ScaledDistance(10, 20, 0.5))
	assert.Equal(t, -5.0, ScaledDistance(-10, 0, 0.5))
}

func TestRealignSingle_Policies(t *testing.T) {
	tests := []struct {
		policy RealignPolicy
		alpha  float64
		want   []float64
	}{
		{RealignSimpleAppend, 0.5, []float64{2, 3, 20}},
		{RealignScaledDistance, 0.5, []float64{2, 3, 11.5}},
		{RealignScaledDistance, 0, []float64{2, 3, 3}},
	}
	for _, tc := range tests {
		t.Run(string(tc.policy), func(t *testing.T) {
			buf, err := NewSlidingBuffer([]float64{1, 2, 3})
			require.NoError(t, err)
			require.NoError(t, realignSingle(buf, tc.policy, 20, tc.alpha))
			assert.Equal(t, tc.want, buf.Snapshot(nil))
		})
	}
}

func TestRealignSingle_RejectsLerp(t *testing.T) {
	buf, err := NewSlidingBuffer([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.ErrorIs(t, realignSingle(buf, RealignLerp, 20, 1), ErrConfiguration)
}

func TestRealignMulti_SimpleAppend_PinsNewest(t *testing.T) {
	// GIVEN a buffer of 4 and a 3-step forecast
	buf, err := NewSlidingBuffer([]float64{1, 2, 3, 4})
	require.NoError(t, err)

	// WHEN realigned after transmitting 50
	require.NoError(t, realignMulti(buf, RealignSimpleAppend, []float64{5, 6, 7}, 50))

	// THEN the forecasts roll in and the newest slot holds the true value
	assert.Equal(t, []float64{4, 5, 6, 50}, buf.Snapshot(nil))
}

func TestRealignMulti_Lerp_StraightLine(t *testing.T) {
	buf, err := NewSlidingBuffer([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	require.NoError(t, realignMulti(buf, RealignLerp, []float64{6, 7}, 11))

	// oldest after the roll is 3, newest is 11: step of 2
	assert.Equal(t, []float64{3, 5, 7, 9, 11}, buf.Snapshot(nil))
}

func TestRealignMulti_HorizonLongerThanWindow(t *testing.T) {
	buf, err := NewSlidingBuffer([]float64{1, 2})
	require.NoError(t, err)

	require.NoError(t, realignMulti(buf, RealignSimpleAppend, []float64{7, 8, 9}, 40))

	assert.Equal(t, []float64{8, 40}, buf.Snapshot(nil))
}

func TestRealignMulti_RejectsScaledDistance(t *testing.T) {
	buf, err := NewSlidingBuffer([]float64{1, 2})
	require.NoError(t, err)
	assert.ErrorIs(t, realignMulti(buf, RealignScaledDistance, []float64{1}, 2), ErrConfiguration)
}

func TestIsValidRealignPolicy(t *testing.T) {
	assert.True(t, IsValidRealignPolicy("simple-append"))
	assert.True(t, IsValidRealignPolicy("scaled-distance"))
	assert.True(t, IsValidRealignPolicy("lerp"))
	assert.False(t, IsValidRealignPolicy(""))
	assert.False(t, IsValidRealignPolicy("Lerp"))
}
