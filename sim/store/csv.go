package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/edgesim/edgesim/sim"
)

// ErrSchemaMismatch is returned when an existing metrics file has a different header.
var ErrSchemaMismatch = errors.New("metrics file schema mismatch")

// CSVSink appends records to a CSV file, writing the header only when the file is new.
type CSVSink struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewCSVSink opens (or creates) the CSV file at path, creating parent directories.
func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	info, statErr := os.Stat(path)
	isNew := statErr != nil || info.Size() == 0
	if !isNew {
		if err := checkHeader(path); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening metrics file: %w", err)
	}
	s := &CSVSink{file: f, w: csv.NewWriter(f)}
	if isNew {
		logrus.Debugf("new metrics file created %q", path)
		if err := s.w.Write(sim.Columns()); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing CSV header: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing CSV header: %w", err)
		}
	}
	return s, nil
}

// checkHeader fails when the existing file was written with a different column set.
func checkHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening metrics file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header of %s: %w", path, err)
	}
	want := sim.Columns()
	if !slices.Equal(header, want) {
		return fmt.Errorf("%w: %s has %d columns %v, want %v", ErrSchemaMismatch, path, len(header), header, want)
	}
	return nil
}

// Append writes one row and flushes it to disk.
func (s *CSVSink) Append(_ context.Context, m *sim.Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Write(m.Row()); err != nil {
		return fmt.Errorf("writing CSV row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flushing CSV row: %w", err)
	}
	return nil
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return s.file.Close()
}
