// Package store persists simulation metrics records, one row per run.
package store

import (
	"context"

	"github.com/edgesim/edgesim/sim"
)

// Sink receives finished metrics records. Implementations are safe for
// concurrent use so parallel runs can share one sink.
type Sink interface {
	Append(ctx context.Context, m *sim.Metrics) error
	Close() error
}

// MultiSink fans a record out to several sinks, stopping at the first error.
type MultiSink []Sink

func (ms MultiSink) Append(ctx context.Context, m *sim.Metrics) error {
	for _, s := range ms {
		if err := s.Append(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the first error encountered.
func (ms MultiSink) Close() error {
	var first error
	for _, s := range ms {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
