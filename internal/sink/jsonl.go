package sink

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nucleus/sft-convert/internal/row"
)

// JSONLSink writes rows as line-delimited JSON, gzip-compressed when the
// output path ends in .gz. It follows the same lazy-open lifecycle and batch
// discipline as the parquet sink.
type JSONLSink struct {
	path      string
	batchSize int

	state writeState
	file  *os.File
	gz    *gzip.Writer
	enc   *json.Encoder
	buf   []row.Row
	total int64
}

// NewJSONLSink creates a line-delimited JSON sink.
func NewJSONLSink(path string, batchSize int) *JSONLSink {
	return &JSONLSink{
		path:      path,
		batchSize: batchSize,
		buf:       make([]row.Row, 0, batchSize),
	}
}

// Append buffers one row, flushing a full batch to the file.
func (s *JSONLSink) Append(r row.Row) error {
	if s.state == stateClosed {
		return wrapError(CodeSinkClosed, fmt.Errorf("append to closed sink %s", s.path))
	}
	s.buf = append(s.buf, r)
	if len(s.buf) >= s.batchSize {
		return s.flush()
	}
	return nil
}

func (s *JSONLSink) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if s.state == stateUnopened {
		if err := s.open(); err != nil {
			return err
		}
	}
	for _, r := range s.buf {
		if err := s.enc.Encode(r); err != nil {
			return wrapError(CodeSinkWriteFailed, fmt.Errorf("write row to %s: %w", s.path, err))
		}
	}
	s.total += int64(len(s.buf))
	s.buf = s.buf[:0]
	return nil
}

func (s *JSONLSink) open() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrapError(CodeSinkWriteFailed, fmt.Errorf("create output directory: %w", err))
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return wrapError(CodeSinkWriteFailed, fmt.Errorf("create %s: %w", s.path, err))
	}
	var w io.Writer = f
	if strings.HasSuffix(s.path, ".gz") {
		s.gz = gzip.NewWriter(f)
		w = s.gz
	}
	s.file = f
	s.enc = json.NewEncoder(w)
	s.state = stateOpen
	return nil
}

// Close flushes the remaining partial batch and finalizes the file.
func (s *JSONLSink) Close() error {
	if s.state == stateClosed {
		return nil
	}
	flushErr := s.flush()
	finalizeErr := s.finalize()
	if flushErr != nil {
		return flushErr
	}
	return finalizeErr
}

// Abort drops buffered rows and finalizes the file with only the batches
// already flushed.
func (s *JSONLSink) Abort() error {
	if s.state == stateClosed {
		return nil
	}
	s.buf = s.buf[:0]
	return s.finalize()
}

func (s *JSONLSink) finalize() error {
	var err error
	if s.state == stateOpen {
		if s.gz != nil {
			if gzErr := s.gz.Close(); gzErr != nil {
				err = wrapError(CodeSinkWriteFailed, fmt.Errorf("flush gzip for %s: %w", s.path, gzErr))
			}
		}
		if closeErr := s.file.Close(); closeErr != nil && err == nil {
			err = wrapError(CodeSinkWriteFailed, fmt.Errorf("close %s: %w", s.path, closeErr))
		}
	}
	s.state = stateClosed
	return err
}

// Total reports the number of rows flushed to the file.
func (s *JSONLSink) Total() int64 { return s.total }
