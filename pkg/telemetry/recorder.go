package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends Metrics rows to a CSV stream.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	every         uint64
	headerWritten bool
}

// NewRecorder writes one row every `every` ticks to w. every below 1 means every tick.
func NewRecorder(w io.Writer, every int) *Recorder {
	r := &Recorder{w: w}
	r.SetEvery(every)
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// CreateRecorder creates (or truncates) the CSV file at path.
// An empty path disables recording and returns a nil Recorder.
func CreateRecorder(path string, every int) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry file: %w", err)
	}
	return NewRecorder(f, every), nil
}

// SetEvery changes the recording interval. every below 1 means every tick.
func (r *Recorder) SetEvery(every int) {
	if r == nil {
		return
	}
	r.every = uint64(max(every, 1))
}

// Due reports whether tick should be recorded.
func (r *Recorder) Due(tick uint64) bool {
	return r != nil && tick%r.every == 0
}

// Write appends m, with a header line before the first row.
func (r *Recorder) Write(m Metrics) error {
	if r == nil {
		return nil
	}
	rows := []Metrics{m}
	if !r.headerWritten {
		if err := gocsv.Marshal(rows, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, r.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying writer when it is a Closer.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
