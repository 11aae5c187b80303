package predictor

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/edgesim/edgesim/sim"
)

// ErrModelNotFound is returned when no artifact exists for a model key.
var ErrModelNotFound = fmt.Errorf("%w: model artifact not found", sim.ErrConfiguration)

// artifactFile is the file name of a model artifact inside its key directory.
const artifactFile = "model.yaml"

// ModelKey identifies a pretrained model artifact.
type ModelKey struct {
	Model   string
	Dataset string
	Window  sim.WindowConfig
	Seed    int64
}

// Path resolves the artifact location under root:
// <root>/<dataset>/<seed>/ws<W>_ts<H>/<model>/model.yaml.
func (k ModelKey) Path(root string) string {
	return filepath.Join(root, k.Dataset, strconv.FormatInt(k.Seed, 10), k.Window.String(), k.Model, artifactFile)
}

// Artifact is the on-disk form of a trained forecaster: a direct multi-output
// linear model over the standardized input window.
//
// Only inputs are standardized with InputMean and InputStd. Outputs are not
// rescaled, so Weights and Bias must produce forecasts in raw sensor units
// (fold any target de-standardization into them at export time).
type Artifact struct {
	Model      string      `yaml:"model"`
	WindowSize int         `yaml:"window_size"`
	Horizon    int         `yaml:"horizon"`
	InputMean  float64     `yaml:"input_mean"`
	InputStd   float64     `yaml:"input_std"`
	Weights    [][]float64 `yaml:"weights"` // Horizon rows of WindowSize coefficients
	Bias       []float64   `yaml:"bias"`    // Horizon intercepts
}

// Validate checks the artifact's shapes against a window configuration.
func (a *Artifact) Validate(wc sim.WindowConfig) error {
	if a.WindowSize != wc.WindowSize || a.Horizon != wc.Horizon {
		return fmt.Errorf("%w: artifact shape ws%d_ts%d does not match %v",
			sim.ErrConfiguration, a.WindowSize, a.Horizon, wc)
	}
	if len(a.Weights) != a.Horizon {
		return fmt.Errorf("%w: artifact has %d weight rows, want %d", sim.ErrConfiguration, len(a.Weights), a.Horizon)
	}
	for i, row := range a.Weights {
		if len(row) != a.WindowSize {
			return fmt.Errorf("%w: artifact weight row %d has %d columns, want %d",
				sim.ErrConfiguration, i, len(row), a.WindowSize)
		}
	}
	if len(a.Bias) != a.Horizon {
		return fmt.Errorf("%w: artifact has %d biases, want %d", sim.ErrConfiguration, len(a.Bias), a.Horizon)
	}
	if a.InputStd < 0 {
		return fmt.Errorf("%w: artifact input_std must be non-negative, got %v", sim.ErrConfiguration, a.InputStd)
	}
	return nil
}

// SaveArtifact writes a to its key location under root, creating directories as needed.
func SaveArtifact(root string, key ModelKey, a *Artifact) error {
	path := key.Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling model artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model artifact: %w", err)
	}
	return nil
}

// LearnedPredictor evaluates a pretrained forecaster. Stateless.
type LearnedPredictor struct {
	name    string
	window  sim.WindowConfig
	mean    float64
	std     float64
	weights *mat.Dense
	bias    *mat.VecDense
}

// LoadLearnedPredictor loads the artifact for key from root.
// A missing artifact yields ErrModelNotFound.
func LoadLearnedPredictor(root string, key ModelKey) (*LearnedPredictor, error) {
	if err := key.Window.Validate(); err != nil {
		return nil, err
	}
	path := key.Path(root)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	// Strict parsing: unknown fields in an artifact are an error.
	var a Artifact
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: parsing model artifact %s: %v", sim.ErrConfiguration, path, err)
	}
	if err := a.Validate(key.Window); err != nil {
		return nil, err
	}
	return NewLearnedPredictor(key.Model, key.Window, &a), nil
}

// NewLearnedPredictor builds a predictor from an already validated artifact.
func NewLearnedPredictor(name string, wc sim.WindowConfig, a *Artifact) *LearnedPredictor {
	w := mat.NewDense(a.Horizon, a.WindowSize, nil)
	for i, row := range a.Weights {
		w.SetRow(i, row)
	}
	bias := make([]float64, len(a.Bias))
	copy(bias, a.Bias)
	std := a.InputStd
	if std == 0 {
		std = 1
	}
	return &LearnedPredictor{
		name:    name,
		window:  wc,
		mean:    a.InputMean,
		std:     std,
		weights: w,
		bias:    mat.NewVecDense(len(bias), bias),
	}
}

func (l *LearnedPredictor) Name() string { return l.name }

// Predict standardizes the window and returns W·x + b in raw units, one value per horizon step.
func (l *LearnedPredictor) Predict(window []float64) ([]float64, error) {
	if err := checkWindow(window, l.window.WindowSize); err != nil {
		return nil, err
	}
	x := make([]float64, len(window))
	for i, v := range window {
		x[i] = (v - l.mean) / l.std
	}
	out := mat.NewVecDense(l.window.Horizon, nil)
	out.MulVec(l.weights, mat.NewVecDense(len(x), x))
	out.AddVec(out, l.bias)
	return out.RawVector().Data, nil
}

func (l *LearnedPredictor) Update(float64) {}
