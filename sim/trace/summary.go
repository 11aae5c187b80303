package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions      int
	TransmittedCount    int
	SuppressedCount     int
	MeanSuppressedError float64
	MaxSuppressedError  float64
	// BoundViolations counts suppressions outside the interval and transmissions
	// inside it. A correct engine always reports 0.
	BoundViolations int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	totalErr := 0.0
	for _, d := range st.Decisions {
		if d.Transmitted {
			summary.TransmittedCount++
			if d.WithinBound() {
				summary.BoundViolations++
			}
			continue
		}
		summary.SuppressedCount++
		if !d.WithinBound() {
			summary.BoundViolations++
		}
		e := d.Error()
		totalErr += e
		if e > summary.MaxSuppressedError {
			summary.MaxSuppressedError = e
		}
	}
	if summary.SuppressedCount > 0 {
		summary.MeanSuppressedError = totalErr / float64(summary.SuppressedCount)
	}

	return summary
}
