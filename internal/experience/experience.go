// Package experience stores environment transitions as Parquet for
// offline training.
package experience

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/fileutil"
)

// SchemaVersion is written to the file's key/value metadata.
const SchemaVersion = "ofc_transition_v1"

// Transition is one (observation, action, reward, next observation) tuple.
// Observation columns hold the 356 observation bits, one byte per bit.
type Transition struct {
	EpisodeID       string  `parquet:"episode_id,dict"`
	Step            int32   `parquet:"step"`
	Observation     []byte  `parquet:"observation"`
	Action          int32   `parquet:"action"`
	Reward          float32 `parquet:"reward"`
	Done            bool    `parquet:"done"`
	Placed          bool    `parquet:"placed"`
	NextObservation []byte  `parquet:"next_observation"`
	Policy          string  `parquet:"policy,dict"`
	Evaluator       string  `parquet:"evaluator,dict"`
}

// ObservationBytes copies an observation into a column value.
func ObservationBytes(obs board.Observation) []byte {
	out := make([]byte, len(obs))
	copy(out, obs[:])
	return out
}

// Writer buffers transitions in memory and writes a single zstd compressed
// Parquet file on Close. Record is safe for concurrent use.
type Writer struct {
	path string

	mu     sync.Mutex
	rows   []Transition
	closed bool
}

// NewWriter creates a writer for path. The parent directory is created.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{path: path}, nil
}

// Record appends the transitions of one episode.
func (w *Writer) Record(rows []Transition) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("experience writer is closed")
	}
	w.rows = append(w.rows, rows...)
	return nil
}

// Rows returns the number of buffered transitions.
func (w *Writer) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.rows)
}

// Path returns the output file path.
func (w *Writer) Path() string { return w.path }

// Close writes the file. Readers never observe a partial file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	err := fileutil.WriteAtomic(w.path, 0o644, func(out io.Writer) error {
		pw := parquet.NewGenericWriter[Transition](
			out,
			parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
			parquet.SkipPageBounds("observation"),
			parquet.SkipPageBounds("next_observation"),
		)
		pw.SetKeyValueMetadata("schema", SchemaVersion)
		if _, err := pw.Write(w.rows); err != nil {
			_ = pw.Close()
			return fmt.Errorf("write parquet: %w", err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("close parquet writer: %w", err)
		}
		return nil
	})
	w.rows = nil
	return err
}

// ReadFile loads every transition from a file written by Writer.
func ReadFile(path string) ([]Transition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Transition](f)
	defer reader.Close()

	rows := make([]Transition, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}
	return rows[:read], nil
}
