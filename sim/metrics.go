// Tracks run-wide suppression counters and accumulated reconstruction error.

package sim

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// Metrics is the flat record produced once per simulation run.
// Counters only grow while the run is in progress.
type Metrics struct {
	Dataset       string
	Seed          int64
	PredictorName string
	WindowSize    int
	Horizon       int
	ErrorPercent  int
	Realign       RealignPolicy
	Alpha         float64
	TotalSamples  int

	SensingCount    int // samples read by the edge, including the WindowSize bootstrap samples
	InferencesCount int // predictor invocations
	SendCount       int // values transmitted to the server
	SkipCount       int // values withheld and replaced by forecasts

	ErrorAcc        float64 // sum of |actual - predicted| over suppressed points
	ErrorPercentAcc float64 // sum of |actual - predicted| / |actual| over suppressed points

	Iterations      int // decision steps taken by the engine
	ZeroActualCount int // suppressed points whose actual value was 0 (no relative error contributed)
}

// newMetrics fills the identifying fields of a record for a run.
func newMetrics(cfg RunConfig, p Predictor, total int) *Metrics {
	return &Metrics{
		Dataset:       cfg.Dataset,
		Seed:          cfg.Seed,
		PredictorName: p.Name(),
		WindowSize:    cfg.Window.WindowSize,
		Horizon:       cfg.Window.Horizon,
		ErrorPercent:  cfg.ErrorPercent,
		Realign:       cfg.Realign,
		Alpha:         cfg.Alpha,
		TotalSamples:  total,
		SensingCount:  cfg.Window.WindowSize,
	}
}

// addError accumulates the error of one suppressed point.
func (m *Metrics) addError(actual, predicted float64) {
	absErr, relErr, ok := pointError(actual, predicted)
	m.ErrorAcc += absErr
	if !ok {
		m.ZeroActualCount++
		return
	}
	m.ErrorPercentAcc += relErr
}

// pointError returns the absolute and relative error of a forecast.
// ok is false when actual is 0 and the relative error is undefined.
func pointError(actual, predicted float64) (absErr, relErr float64, ok bool) {
	absErr = math.Abs(actual - predicted)
	if actual == 0 {
		return absErr, 0, false
	}
	return absErr, absErr / math.Abs(actual), true
}

// Rates holds the ratios the analysis layer derives from a record.
type Rates struct {
	SuppressionRate  float64
	TransmissionRate float64
	MAE              float64
	MAPE             float64
}

// Rates derives suppression/transmission rates and mean errors over suppressed points.
// Zero denominators yield zero rates.
func (m *Metrics) Rates() Rates {
	var r Rates
	if m.TotalSamples > 0 {
		r.SuppressionRate = float64(m.SkipCount) / float64(m.TotalSamples)
		r.TransmissionRate = float64(m.SendCount) / float64(m.TotalSamples)
	}
	if m.SkipCount > 0 {
		r.MAE = m.ErrorAcc / float64(m.SkipCount)
	}
	if n := m.SkipCount - m.ZeroActualCount; n > 0 {
		r.MAPE = m.ErrorPercentAcc / float64(n)
	}
	return r
}

// metricsColumns is the column order of a persisted record.
var metricsColumns = []string{
	"dataset", "seed", "predictor_name", "window_size", "time_steps", "error",
	"realign", "alpha", "tot_samples", "sensing_count", "inferences_count",
	"send_count", "skip_count", "error_acc", "error_percent_acc",
	"iterations", "zero_actual_count",
}

// Columns returns the ordered field names of a record.
func Columns() []string {
	out := make([]string, len(metricsColumns))
	copy(out, metricsColumns)
	return out
}

// Row returns the record values in Columns() order.
// Floats use the shortest representation that round-trips.
func (m *Metrics) Row() []string {
	return []string{
		m.Dataset,
		strconv.FormatInt(m.Seed, 10),
		m.PredictorName,
		strconv.Itoa(m.WindowSize),
		strconv.Itoa(m.Horizon),
		strconv.Itoa(m.ErrorPercent),
		string(m.Realign),
		formatFloat(m.Alpha),
		strconv.Itoa(m.TotalSamples),
		strconv.Itoa(m.SensingCount),
		strconv.Itoa(m.InferencesCount),
		strconv.Itoa(m.SendCount),
		strconv.Itoa(m.SkipCount),
		formatFloat(m.ErrorAcc),
		formatFloat(m.ErrorPercentAcc),
		strconv.Itoa(m.Iterations),
		strconv.Itoa(m.ZeroActualCount),
	}
}

// Print writes a human-readable summary of the run.
func (m *Metrics) Print(w io.Writer) {
	r := m.Rates()
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Dataset              : %s (seed %d)\n", m.Dataset, m.Seed)
	fmt.Fprintf(w, "Predictor            : %s (ws=%d, ts=%d)\n", m.PredictorName, m.WindowSize, m.Horizon)
	fmt.Fprintf(w, "Error bound          : %d%% (%s, alpha=%.2f)\n", m.ErrorPercent, m.Realign, m.Alpha)
	fmt.Fprintf(w, "Total Samples        : %d\n", m.TotalSamples)
	fmt.Fprintf(w, "Sensed / Inferences  : %d / %d\n", m.SensingCount, m.InferencesCount)
	fmt.Fprintf(w, "Sent / Skipped       : %d / %d\n", m.SendCount, m.SkipCount)
	fmt.Fprintf(w, "Suppression Rate     : %.4f\n", r.SuppressionRate)
	fmt.Fprintf(w, "Transmission Rate    : %.4f\n", r.TransmissionRate)
	if m.SkipCount > 0 {
		fmt.Fprintf(w, "MAE (suppressed)     : %.6f\n", r.MAE)
		fmt.Fprintf(w, "MAPE (suppressed)    : %.6f\n", r.MAPE)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

