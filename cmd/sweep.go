package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/edgesim/edgesim/sim"
	"github.com/edgesim/edgesim/sim/predictor"
	"github.com/edgesim/edgesim/sim/store"
	"github.com/edgesim/edgesim/sim/stream"
)

var sweepConfigPath string // Sweep YAML file

// sweepCmd runs every permutation of a sweep configuration
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a grid of suppression simulations from a YAML file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := LoadSweepConfig(sweepConfigPath)
		if err != nil {
			logrus.Fatalf("Invalid sweep config: %v", err)
		}
		sink, err := openSinks(cmd.Context(), cfg.Output, cfg.SQLite)
		if err != nil {
			logrus.Fatalf("Failed to open metrics output: %v", err)
		}

		startTime := time.Now()
		stats, err := RunSweep(cmd.Context(), cfg, sink)
		if sink != nil {
			if cerr := sink.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		logrus.Infof("Sweep complete: %d runs, %d skipped in %v", stats.Completed, stats.Skipped, time.Since(startTime))
	},
}

// SweepStats counts sweep outcomes.
type SweepStats struct {
	Completed int64
	Skipped   int64
}

// streamKey caches a test stream per dataset and seed.
type streamKey struct {
	dataset string
	seed    int64
}

// RunSweep loads every dataset, splits one test stream per seed and runs all
// jobs on at most cfg.Workers goroutines. Each job builds its own predictor and
// buffer, so no state is shared between runs. sink may be nil.
func RunSweep(ctx context.Context, cfg *SweepConfig, sink store.Sink) (SweepStats, error) {
	jobs := cfg.Jobs()
	streams, err := loadStreams(cfg, jobs)
	if err != nil {
		return SweepStats{}, err
	}
	logrus.Infof("Sweep: %d jobs over %d workers", len(jobs), cfg.Workers)

	var completed, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			log := logrus.WithFields(logrus.Fields{
				"dataset":   job.Dataset.Name,
				"seed":      job.Run.Seed,
				"technique": job.Technique,
				"predictor": job.Predictor.Kind,
				"window":    job.Run.Window.String(),
				"error":     job.Run.ErrorPercent,
				"realign":   job.Run.Realign,
			})
			m, err := runJob(job, streams[streamKey{job.Dataset.Name, job.Run.Seed}])
			if err != nil {
				if cfg.SkipInvalid && isInvalidPermutation(err) {
					log.WithError(err).Warn("skipping invalid permutation")
					skipped.Add(1)
					return nil
				}
				return fmt.Errorf("%s seed=%d %s/%s %v: %w", job.Dataset.Name, job.Run.Seed,
					job.Technique, job.Predictor.Kind, job.Run.Window, err)
			}
			if sink != nil {
				if err := sink.Append(gctx, m); err != nil {
					return err
				}
			}
			log.Debugf("run done: sent=%d skipped=%d", m.SendCount, m.SkipCount)
			completed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return SweepStats{Completed: completed.Load(), Skipped: skipped.Load()}, err
}

// isInvalidPermutation reports whether err comes from a parameter combination
// the engines or predictors reject, as opposed to an I/O or sink failure.
func isInvalidPermutation(err error) bool {
	return errors.Is(err, sim.ErrConfiguration) || errors.Is(err, sim.ErrPrecondition)
}

func runJob(job Job, testStream []float64) (*sim.Metrics, error) {
	p, err := predictor.New(job.Predictor)
	if err != nil {
		return nil, err
	}
	cfg := job.Run
	cfg.ResetPredictor = true
	return sim.Simulate(job.Technique, testStream, p, cfg)
}

// loadStreams reads each dataset once and splits it for each seed the jobs use.
func loadStreams(cfg *SweepConfig, jobs []Job) (map[streamKey][]float64, error) {
	series := make(map[string][]float64)
	streams := make(map[streamKey][]float64)
	for _, job := range jobs {
		k := streamKey{job.Dataset.Name, job.Run.Seed}
		if _, ok := streams[k]; ok {
			continue
		}
		s, ok := series[job.Dataset.Name]
		if !ok {
			var err error
			s, err = stream.LoadCSV(job.Dataset.Path, job.Dataset.Column)
			if err != nil {
				return nil, fmt.Errorf("dataset %s: %w", job.Dataset.Name, err)
			}
			series[job.Dataset.Name] = s
		}
		test, err := stream.TestStream(s, stream.SplitConfig{ChunkSize: cfg.ChunkSize, TestChunks: cfg.TestChunks, Seed: k.seed})
		if err != nil {
			return nil, fmt.Errorf("dataset %s seed %d: %w", job.Dataset.Name, k.seed, err)
		}
		streams[k] = test
	}
	return streams, nil
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "sweep.yaml", "Sweep configuration YAML")
}
