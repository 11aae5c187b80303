package sim

import "fmt"

// RealignPolicy names how the buffer is repaired after a transmit decision.
type RealignPolicy string

const (
	// RealignSimpleAppend writes the transmitted value into the newest slot.
	RealignSimpleAppend RealignPolicy = "simple-append"
	// RealignScaledDistance moves the newest slot only alpha of the way from the
	// previous newest value toward the transmitted value. Single-step only.
	RealignScaledDistance RealignPolicy = "scaled-distance"
	// RealignLerp replaces the whole buffer with a straight line from the oldest
	// value to the transmitted value. Multi-step only.
	RealignLerp RealignPolicy = "lerp"
)

// ValidRealignPolicies is the set of recognized realignment policy names.
var ValidRealignPolicies = map[RealignPolicy]bool{
	RealignSimpleAppend:   true,
	RealignScaledDistance: true,
	RealignLerp:           true,
}

// singleStepPolicies and multiStepPolicies list the policies each engine accepts.
var (
	singleStepPolicies = map[RealignPolicy]bool{RealignSimpleAppend: true, RealignScaledDistance: true}
	multiStepPolicies  = map[RealignPolicy]bool{RealignSimpleAppend: true, RealignLerp: true}
)

// IsValidRealignPolicy returns true if name is a recognized policy.
func IsValidRealignPolicy(name string) bool {
	return ValidRealignPolicies[RealignPolicy(name)]
}

func checkPolicy(policy RealignPolicy, allowed map[RealignPolicy]bool, engine string) error {
	if !ValidRealignPolicies[policy] {
		return fmt.Errorf("%w: unknown realign policy %q", ErrConfiguration, policy)
	}
	if !allowed[policy] {
		return fmt.Errorf("%w: realign policy %q is not supported by the %s engine", ErrConfiguration, policy, engine)
	}
	return nil
}

// realignSingle rolls the buffer once after a transmit of yReal.
func realignSingle(buf *SlidingBuffer, policy RealignPolicy, yReal, alpha float64) error {
	switch policy {
	case RealignSimpleAppend:
		buf.Push(yReal)
	case RealignScaledDistance:
		buf.Push(ScaledDistance(buf.Newest(), yReal, alpha))
	default:
		return fmt.Errorf("%w: unknown realign policy %q", ErrConfiguration, policy)
	}
	return nil
}

// realignMulti rolls the buffer len(yPred) times with the forecasts, pins the
// newest slot to the transmitted yReal and, for lerp, straightens the buffer.
func realignMulti(buf *SlidingBuffer, policy RealignPolicy, yPred []float64, yReal float64) error {
	switch policy {
	case RealignSimpleAppend, RealignLerp:
		for _, v := range yPred {
			buf.Push(v)
		}
		buf.SetNewest(yReal)
		if policy == RealignLerp {
			return buf.Interpolate()
		}
	default:
		return fmt.Errorf("%w: unknown realign policy %q", ErrConfiguration, policy)
	}
	return nil
}

// ScaledDistance returns p1 + (p2-p1)*alpha: p2 at alpha=1, p1 at alpha=0.
func ScaledDistance(p1, p2, alpha float64) float64 {
	return p1 + (p2-p1)*alpha
}
