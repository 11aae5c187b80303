// Package sim provides the streaming suppression-decision engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - buffer.go: the sliding window ring the edge device keeps
//   - dlbdc.go: single-step engine, one decision per sample
//   - dlds.go: multi-step engine, one decision per forecast horizon
//   - realign.go: how the buffer is repaired after a transmit
//
// # Architecture
//
// The sim package defines the Predictor interface and the engines; the rest lives
// in sub-packages:
//   - sim/predictor/: linear-trend, Kalman filter and learned-model predictors
//   - sim/stream/: series loading and seeded train/test chunk selection
//   - sim/store/: metrics persistence (CSV, SQLite)
//   - sim/trace/: per-decision trace recording
//
// Each run owns its buffer and predictor. Runs share nothing and can execute in
// parallel; the engines themselves are sequential and do no I/O.
package sim
