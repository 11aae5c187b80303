package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_NilAndEmpty(t *testing.T) {
	assert.Equal(t, &TraceSummary{}, Summarize(nil))
	assert.Equal(t, &TraceSummary{}, Summarize(NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})))
}

func TestSummarize_CountsAndErrors(t *testing.T) {
	// GIVEN two suppressions and one transmission
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DecisionRecord{Actual: 10, Predicted: 10.5, Tolerance: 1})
	st.RecordDecision(DecisionRecord{Actual: 20, Predicted: 21.5, Tolerance: 2})
	st.RecordDecision(DecisionRecord{Actual: 30, Predicted: 10, Tolerance: 3, Transmitted: true})

	// WHEN summarized
	s := Summarize(st)

	// THEN counts split by decision and errors only cover suppressions
	assert.Equal(t, 3, s.TotalDecisions)
	assert.Equal(t, 1, s.TransmittedCount)
	assert.Equal(t, 2, s.SuppressedCount)
	assert.Equal(t, 1.0, s.MeanSuppressedError)
	assert.Equal(t, 1.5, s.MaxSuppressedError)
	assert.Equal(t, 0, s.BoundViolations)
}

func TestSummarize_FlagsBoundViolations(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	// suppressed outside the interval
	st.RecordDecision(DecisionRecord{Actual: 10, Predicted: 12, Tolerance: 1})
	// transmitted although inside the interval
	st.RecordDecision(DecisionRecord{Actual: 10, Predicted: 10, Tolerance: 1, Transmitted: true})

	assert.Equal(t, 2, Summarize(st).BoundViolations)
}
