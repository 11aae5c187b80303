package sim

import "fmt"

// WindowConfig describes the forecasting window.
// WindowSize is the number of past samples kept in the buffer and fed to the predictor;
// Horizon is the number of future steps a predictor emits per call.
type WindowConfig struct {
	WindowSize int `yaml:"window_size"`
	Horizon    int `yaml:"horizon"`
}

// NewWindowConfig creates a validated WindowConfig.
func NewWindowConfig(windowSize, horizon int) (WindowConfig, error) {
	wc := WindowConfig{WindowSize: windowSize, Horizon: horizon}
	if err := wc.Validate(); err != nil {
		return WindowConfig{}, err
	}
	return wc, nil
}

// Validate checks that both dimensions are at least 1.
func (wc WindowConfig) Validate() error {
	if wc.WindowSize < 1 {
		return fmt.Errorf("%w: window_size must be >= 1, got %d", ErrConfiguration, wc.WindowSize)
	}
	if wc.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be >= 1, got %d", ErrConfiguration, wc.Horizon)
	}
	return nil
}

// String renders the config the way model artifacts are keyed on disk (e.g. "ws5_ts2").
func (wc WindowConfig) String() string {
	return fmt.Sprintf("ws%d_ts%d", wc.WindowSize, wc.Horizon)
}
