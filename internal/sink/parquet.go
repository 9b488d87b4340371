package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/nucleus/sft-convert/internal/row"
)

// parquetConcurrency is the parallelism handed to the parquet writer.
const parquetConcurrency = 4

// ParquetSink writes rows into a single zstd-compressed parquet file.
type ParquetSink struct {
	path      string
	schema    string
	batchSize int

	state writeState
	file  source.ParquetFile
	pw    *writer.JSONWriter
	buf   []row.Row
	total int64
}

// NewParquetSink creates a parquet sink for the given output format. No file
// is created until the first flush.
func NewParquetSink(path, format string, batchSize int) *ParquetSink {
	return &ParquetSink{
		path:      path,
		schema:    schemaFor(format),
		batchSize: batchSize,
		buf:       make([]row.Row, 0, batchSize),
	}
}

// Append buffers one row, flushing a full batch to the file.
func (s *ParquetSink) Append(r row.Row) error {
	if s.state == stateClosed {
		return wrapError(CodeSinkClosed, fmt.Errorf("append to closed sink %s", s.path))
	}
	s.buf = append(s.buf, r)
	if len(s.buf) >= s.batchSize {
		return s.flush()
	}
	return nil
}

func (s *ParquetSink) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if s.state == stateUnopened {
		if err := s.open(); err != nil {
			return err
		}
	}
	for _, r := range s.buf {
		encoded, err := json.Marshal(r)
		if err != nil {
			return wrapError(CodeSinkWriteFailed, fmt.Errorf("encode row: %w", err))
		}
		if err := s.pw.Write(string(encoded)); err != nil {
			return wrapError(CodeSinkWriteFailed, fmt.Errorf("write row to %s: %w", s.path, err))
		}
	}
	s.total += int64(len(s.buf))
	s.buf = s.buf[:0]
	return nil
}

func (s *ParquetSink) open() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrapError(CodeSinkWriteFailed, fmt.Errorf("create output directory: %w", err))
		}
	}
	fw, err := local.NewLocalFileWriter(s.path)
	if err != nil {
		return wrapError(CodeSinkWriteFailed, fmt.Errorf("create %s: %w", s.path, err))
	}
	pw, err := writer.NewJSONWriter(s.schema, fw, parquetConcurrency)
	if err != nil {
		_ = fw.Close()
		return wrapError(CodeSinkWriteFailed, fmt.Errorf("init parquet writer for %s: %w", s.path, err))
	}
	pw.CompressionType = parquet.CompressionCodec_ZSTD
	s.file = fw
	s.pw = pw
	s.state = stateOpen
	return nil
}

// Close flushes the remaining partial batch and finalizes the file.
func (s *ParquetSink) Close() error {
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
func (s *ParquetSink) Abort() error {
	if s.state == stateClosed {
		return nil
	}
	s.buf = s.buf[:0]
	return s.finalize()
}

func (s *ParquetSink) finalize() error {
	var err error
	if s.state == stateOpen {
		if stopErr := s.pw.WriteStop(); stopErr != nil {
			err = wrapError(CodeSinkWriteFailed, fmt.Errorf("finalize %s: %w", s.path, stopErr))
		}
		if closeErr := s.file.Close(); closeErr != nil && err == nil {
			err = wrapError(CodeSinkWriteFailed, fmt.Errorf("close %s: %w", s.path, closeErr))
		}
	}
	s.state = stateClosed
	return err
}

// Total reports the number of rows flushed to the file.
func (s *ParquetSink) Total() int64 { return s.total }
