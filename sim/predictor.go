package sim

// Predictor forecasts the next values of a stream from the current window.
// Implementations live in sim/predictor/; the engines depend only on this contract.
type Predictor interface {
	// Name identifies the predictor in metrics records. No behavioral effect.
	Name() string

	// Predict returns forecasts for the steps following window, in order.
	// window is oldest-first and must have the predictor's configured length;
	// implementations must not retain or mutate it.
	Predict(window []float64) ([]float64, error)

	// Update feeds the value now occupying the newest buffer slot, real or predicted.
	// Stateless predictors ignore it.
	Update(sample float64)
}

// Resetter is implemented by predictors carrying state across Update calls.
// Reset discards that state so the predictor can start an unrelated episode.
type Resetter interface {
	Reset()
}
