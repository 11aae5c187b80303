package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edgesim/edgesim/sim"
	"github.com/edgesim/edgesim/sim/predictor"
	"github.com/edgesim/edgesim/sim/store"
	"github.com/edgesim/edgesim/sim/stream"
	"github.com/edgesim/edgesim/sim/trace"
)

var (
	// CLI flags for the input stream
	streamPath  string // CSV file holding the sensor series
	column      string // Value column inside the CSV
	datasetName string // Dataset label; defaults to the file's base name
	seed        int64  // Seed selecting the random test chunks
	chunkSize   int    // Samples per chunk in the random split
	testChunks  int    // Number of chunks kept for the test stream
	noSplit     bool   // Simulate over the whole series instead of the test chunks
	logLevel    string // Log verbosity level

	// CLI flags for the simulation
	technique    string  // dlbdc or dlds
	windowSize   int     // Samples kept in the edge buffer
	horizon      int     // Forecast steps per prediction
	errorPercent int     // Tolerated relative error, in percent
	realign      string  // Realignment policy after a transmit
	alpha        float64 // Damping factor for scaled-distance

	// CLI flags for the predictor
	predictorKind string // trend, kalman or learned
	edgePoints    int    // trend: samples averaged at each window edge
	stateDim      int    // kalman: state vector dimension
	modelName     string // learned: model identifier
	modelsDir     string // learned: artifact root directory

	// CLI flags for outputs
	outputCSV  string // Metrics CSV appended to after the run
	outputDB   string // SQLite database receiving the run
	traceLevel string // Decision trace verbosity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "edgesim",
	Short: "Edge-to-cloud transmission suppression simulator",
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes a single simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one suppression simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if streamPath == "" {
			logrus.Fatalf("Stream file not provided. Exiting simulation.")
		}
		if !sim.ValidTechniques[sim.Technique(technique)] {
			logrus.Fatalf("Unknown technique %q (valid: dlbdc, dlds)", technique)
		}
		if !predictor.ValidKinds[predictor.Kind(predictorKind)] {
			logrus.Fatalf("Unknown predictor %q (valid: trend, kalman, learned)", predictorKind)
		}
		if err := checkPairing(sim.Technique(technique), predictor.Kind(predictorKind), modelName); err != nil {
			logrus.Fatalf("Invalid predictor selection: %v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q", traceLevel)
		}
		if datasetName == "" {
			datasetName = strings.TrimSuffix(filepath.Base(streamPath), filepath.Ext(streamPath))
		}

		series, err := stream.LoadCSV(streamPath, column)
		if err != nil {
			logrus.Fatalf("Failed to load stream: %v", err)
		}
		testStream := series
		if !noSplit {
			testStream, err = stream.TestStream(series, stream.SplitConfig{ChunkSize: chunkSize, TestChunks: testChunks, Seed: seed})
			if err != nil {
				logrus.Fatalf("Failed to split stream: %v", err)
			}
		}
		logrus.Infof("Loaded %d samples from %s, simulating over %d", len(series), streamPath, len(testStream))

		wc, err := sim.NewWindowConfig(windowSize, horizon)
		if err != nil {
			logrus.Fatalf("Invalid window: %v", err)
		}
		p, err := predictor.New(predictor.Config{
			Kind:       predictor.Kind(predictorKind),
			Window:     wc,
			EdgePoints: edgePoints,
			StateDim:   stateDim,
			Model:      modelName,
			ModelsDir:  modelsDir,
			Dataset:    datasetName,
			Seed:       seed,
		})
		if err != nil {
			logrus.Fatalf("Failed to create predictor: %v", err)
		}

		var st *trace.SimulationTrace
		if trace.TraceLevel(traceLevel) == trace.TraceLevelDecisions {
			st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		}
		cfg := sim.RunConfig{
			Dataset:      datasetName,
			Seed:         seed,
			Window:       wc,
			ErrorPercent: errorPercent,
			Realign:      sim.RealignPolicy(realign),
			Alpha:        alpha,
			Trace:        st,
		}
		m, err := sim.Simulate(sim.Technique(technique), testStream, p, cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		m.Print(os.Stdout)

		if st != nil {
			summary := trace.Summarize(st)
			logrus.Infof("Trace: %d decisions, %d transmitted, %d suppressed, max suppressed error %.6f, bound violations %d",
				summary.TotalDecisions, summary.TransmittedCount, summary.SuppressedCount,
				summary.MaxSuppressedError, summary.BoundViolations)
		}

		sink, err := openSinks(context.Background(), outputCSV, outputDB)
		if err != nil {
			logrus.Fatalf("Failed to open metrics output: %v", err)
		}
		if sink != nil {
			if err := sink.Append(context.Background(), m); err != nil {
				logrus.Fatalf("Failed to save metrics: %v", err)
			}
			if err := sink.Close(); err != nil {
				logrus.Fatalf("Failed to close metrics output: %v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// openSinks opens the configured metric outputs. Returns nil when none is set.
func openSinks(ctx context.Context, csvPath, dbPath string) (store.Sink, error) {
	var sinks store.MultiSink
	if csvPath != "" {
		s, err := store.NewCSVSink(csvPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if dbPath != "" {
		s, err := store.NewSQLiteSink(ctx, dbPath)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		return nil, nil
	}
	return sinks, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Input stream
	runCmd.Flags().StringVar(&streamPath, "stream", "", "CSV file with the sensor series")
	runCmd.Flags().StringVar(&column, "column", stream.DefaultColumn, "Value column in the CSV")
	runCmd.Flags().StringVar(&datasetName, "dataset", "", "Dataset label (default: stream file base name)")
	runCmd.Flags().Int64Var(&seed, "seed", 69, "Seed for the random test chunk selection")
	runCmd.Flags().IntVar(&chunkSize, "chunk-size", stream.DefaultChunkSize, "Samples per chunk in the random split")
	runCmd.Flags().IntVar(&testChunks, "test-chunks", stream.DefaultTestChunks, "Chunks kept for the test stream")
	runCmd.Flags().BoolVar(&noSplit, "no-split", false, "Simulate over the whole series")

	// Simulation
	runCmd.Flags().StringVar(&technique, "technique", string(sim.TechniqueSingleStep), "Suppression technique (dlbdc, dlds)")
	runCmd.Flags().IntVar(&windowSize, "window-size", 5, "Samples kept in the edge buffer")
	runCmd.Flags().IntVar(&horizon, "horizon", 1, "Forecast steps per prediction")
	runCmd.Flags().IntVar(&errorPercent, "error", 3, "Tolerated relative error in percent")
	runCmd.Flags().StringVar(&realign, "realign", string(sim.RealignSimpleAppend), "Realignment policy (simple-append, scaled-distance, lerp)")
	runCmd.Flags().Float64Var(&alpha, "alpha", sim.DefaultAlpha, "Damping factor for scaled-distance, in [0, 1]")

	// Predictor
	runCmd.Flags().StringVar(&predictorKind, "predictor", string(predictor.KindTrend), "Predictor (trend, kalman, learned)")
	runCmd.Flags().IntVar(&edgePoints, "edge-points", predictor.DefaultEdgePoints, "Trend: samples averaged at each window edge")
	runCmd.Flags().IntVar(&stateDim, "state-dim", 0, "Kalman: state dimension (default: window size)")
	runCmd.Flags().StringVar(&modelName, "model", "", "Learned: model identifier")
	runCmd.Flags().StringVar(&modelsDir, "models-dir", "models", "Learned: artifact root directory")

	// Outputs
	runCmd.Flags().StringVar(&outputCSV, "output", "", "Append the metrics record to this CSV file")
	runCmd.Flags().StringVar(&outputDB, "sqlite", "", "Store the metrics record in this SQLite database")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
