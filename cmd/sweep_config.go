package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edgesim/edgesim/sim"
	"github.com/edgesim/edgesim/sim/predictor"
	"github.com/edgesim/edgesim/sim/stream"
)

// DatasetSpec names one series file in a sweep.
type DatasetSpec struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Column string `yaml:"column"`
}

// RunTemplate describes one technique/predictor combination. Zero WindowSize or
// Horizon means "sweep over the top-level lists"; a non-zero value pins it.
type RunTemplate struct {
	Technique  string    `yaml:"technique"`
	Predictor  string    `yaml:"predictor"`
	Model      string    `yaml:"model"`
	Realign    string    `yaml:"realign"`
	Alphas     []float64 `yaml:"alphas"`
	WindowSize int       `yaml:"window_size"`
	Horizon    int       `yaml:"horizon"`
	EdgePoints int       `yaml:"edge_points"`
	StateDim   int       `yaml:"state_dim"`
}

// SweepConfig represents the full sweep YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type SweepConfig struct {
	Datasets    []DatasetSpec `yaml:"datasets"`
	Seeds       []int64       `yaml:"seeds"`
	WindowSizes []int         `yaml:"window_sizes"`
	Horizons    []int         `yaml:"horizons"`
	Errors      []int         `yaml:"errors"`
	ChunkSize   int           `yaml:"chunk_size"`
	TestChunks  int           `yaml:"test_chunks"`
	ModelsDir   string        `yaml:"models_dir"`
	Output      string        `yaml:"output"`
	SQLite      string        `yaml:"sqlite"`
	Workers     int           `yaml:"workers"`
	SkipInvalid bool          `yaml:"skip_invalid"`
	Runs        []RunTemplate `yaml:"runs"`
}

// Job is one fully resolved simulation of a sweep.
type Job struct {
	Dataset   DatasetSpec
	Technique sim.Technique
	Predictor predictor.Config
	Run       sim.RunConfig
}

// key identifies a job for de-duplication when templates pin window dimensions.
func (j Job) key() string {
	return fmt.Sprintf("%s|%d|%s|%s|%s|%v|%d|%s|%g|%d|%d",
		j.Dataset.Name, j.Run.Seed, j.Technique, j.Predictor.Kind, j.Predictor.Model,
		j.Run.Window, j.Run.ErrorPercent, j.Run.Realign, j.Run.Alpha,
		j.Predictor.EdgePoints, j.Predictor.StateDim)
}

// LoadSweepConfig parses a sweep YAML file with strict field checking,
// fills defaults and validates it.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep config: %w", err)
	}
	return ParseSweepConfig(data)
}

// ParseSweepConfig is LoadSweepConfig over in-memory YAML.
func ParseSweepConfig(data []byte) (*SweepConfig, error) {
	var cfg SweepConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing sweep config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SweepConfig) applyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = stream.DefaultChunkSize
	}
	if c.TestChunks == 0 {
		c.TestChunks = stream.DefaultTestChunks
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	for i := range c.Datasets {
		if c.Datasets[i].Column == "" {
			c.Datasets[i].Column = stream.DefaultColumn
		}
	}
}

// Validate checks names and ranges; it does not touch the filesystem.
func (c *SweepConfig) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("sweep needs at least one dataset")
	}
	for _, d := range c.Datasets {
		if d.Name == "" || d.Path == "" {
			return fmt.Errorf("dataset entries need both name and path, got %+v", d)
		}
	}
	if len(c.Seeds) == 0 || len(c.Errors) == 0 {
		return fmt.Errorf("sweep needs at least one seed and one error")
	}
	if len(c.Runs) == 0 {
		return fmt.Errorf("sweep needs at least one run")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	for i, r := range c.Runs {
		if !sim.ValidTechniques[sim.Technique(r.Technique)] {
			return fmt.Errorf("run %d: unknown technique %q", i, r.Technique)
		}
		if !predictor.ValidKinds[predictor.Kind(r.Predictor)] {
			return fmt.Errorf("run %d: unknown predictor %q", i, r.Predictor)
		}
		if !sim.IsValidRealignPolicy(r.Realign) {
			return fmt.Errorf("run %d: unknown realign policy %q", i, r.Realign)
		}
		if err := checkPairing(sim.Technique(r.Technique), predictor.Kind(r.Predictor), r.Model); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		if r.WindowSize == 0 && len(c.WindowSizes) == 0 {
			return fmt.Errorf("run %d: no window_size and no top-level window_sizes", i)
		}
		if r.Horizon == 0 && len(c.Horizons) == 0 {
			return fmt.Errorf("run %d: no horizon and no top-level horizons", i)
		}
		for _, a := range r.Alphas {
			if a < 0 || a > 1 {
				return fmt.Errorf("run %d: alpha must be in [0, 1], got %v", i, a)
			}
		}
	}
	return nil
}

// checkPairing rejects technique/predictor combinations that cannot produce a
// meaningful run. The multi-step engine never feeds observations back, so a
// Kalman filter would stay at its zero prior.
func checkPairing(t sim.Technique, kind predictor.Kind, model string) error {
	if kind == predictor.KindLearned && model == "" {
		return fmt.Errorf("learned predictor needs a model")
	}
	if t == sim.TechniqueMultiStep && kind == predictor.KindKalman {
		return fmt.Errorf("kalman predictor needs measurement updates and cannot run with %s", t)
	}
	return nil
}

// Jobs expands the sweep into its distinct permutations, in deterministic order:
// datasets × seeds × window sizes × horizons × errors × runs × alphas.
func (c *SweepConfig) Jobs() []Job {
	var jobs []Job
	seen := make(map[string]bool)
	for _, ds := range c.Datasets {
		for _, seed := range c.Seeds {
			for _, ws := range orDefault(c.WindowSizes) {
				for _, ts := range orDefault(c.Horizons) {
					for _, errPct := range c.Errors {
						for _, r := range c.Runs {
							alphas := r.Alphas
							if len(alphas) == 0 {
								alphas = []float64{sim.DefaultAlpha}
							}
							for _, a := range alphas {
								job := c.resolve(ds, seed, ws, ts, errPct, r, a)
								if k := job.key(); !seen[k] {
									seen[k] = true
									jobs = append(jobs, job)
								}
							}
						}
					}
				}
			}
		}
	}
	return jobs
}

func (c *SweepConfig) resolve(ds DatasetSpec, seed int64, ws, ts, errPct int, r RunTemplate, a float64) Job {
	if r.WindowSize != 0 {
		ws = r.WindowSize
	}
	if r.Horizon != 0 {
		ts = r.Horizon
	}
	wc := sim.WindowConfig{WindowSize: ws, Horizon: ts}
	return Job{
		Dataset:   ds,
		Technique: sim.Technique(r.Technique),
		Predictor: predictor.Config{
			Kind:       predictor.Kind(r.Predictor),
			Window:     wc,
			EdgePoints: r.EdgePoints,
			StateDim:   r.StateDim,
			Model:      r.Model,
			ModelsDir:  c.ModelsDir,
			Dataset:    ds.Name,
			Seed:       seed,
		},
		Run: sim.RunConfig{
			Dataset:      ds.Name,
			Seed:         seed,
			Window:       wc,
			ErrorPercent: errPct,
			Realign:      sim.RealignPolicy(r.Realign),
			Alpha:        a,
		},
	}
}

// orDefault yields a single zero placeholder for an empty list so the
// expansion still iterates once; templates then pin the actual value.
func orDefault(values []int) []int {
	if len(values) == 0 {
		return []int{0}
	}
	return values
}
