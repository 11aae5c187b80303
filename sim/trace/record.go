// Package trace provides per-decision recording for suppression runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DecisionRecord captures a single transmit/suppress decision.
type DecisionRecord struct {
	Step        int     // zero-based decision number within the run
	Index       int     // stream index of the point the decision was made on
	Actual      float64 // true value at Index
	Predicted   float64 // forecast compared against Actual
	Tolerance   float64 // half-width of the acceptance interval
	Transmitted bool
	Buffered    float64 // newest buffer value after the decision was applied
}

// Error returns |Actual - Predicted|.
func (r DecisionRecord) Error() float64 {
	d := r.Actual - r.Predicted
	if d < 0 {
		return -d
	}
	return d
}

// WithinBound reports whether the forecast lies inside the acceptance interval.
func (r DecisionRecord) WithinBound() bool {
	return r.Predicted >= r.Actual-r.Tolerance && r.Predicted <= r.Actual+r.Tolerance
}
