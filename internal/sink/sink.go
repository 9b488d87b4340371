// Package sink writes mapped rows to a single output file in batch-sized
// chunks, with the file handle opened lazily and released on every exit path.
package sink

import (
	"encoding/json"
	"strings"

	"github.com/nucleus/sft-convert/internal/row"
)

// DefaultBatchSize is the number of rows buffered before a flush.
const DefaultBatchSize = 4096

// Sink accumulates rows and writes them out.
//
// Lifecycle is unopened -> open -> closed: the output file is created on the
// first flush, and closed is terminal. Close finalizes the remaining partial
// batch; Abort drops buffered rows and finalizes only what was already
// flushed. Both release the handle and are safe to call more than once.
type Sink interface {
	Append(r row.Row) error
	Close() error
	Abort() error
	Total() int64
}

// New selects a sink from the output path. Paths ending in .jsonl or
// .jsonl.gz get the line-delimited sink; anything else gets parquet.
func New(outputPath, format string, batchSize int) Sink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if strings.HasSuffix(outputPath, ".jsonl") || strings.HasSuffix(outputPath, ".jsonl.gz") {
		return NewJSONLSink(outputPath, batchSize)
	}
	return NewParquetSink(outputPath, format, batchSize)
}

type writeState int

const (
	stateUnopened writeState = iota
	stateOpen
	stateClosed
)

// schemaFor builds the parquet JSON schema for an output format. The schema
// is fixed per run: two string columns for single_turn, one list-of-struct
// column otherwise. Unrecognized formats surface from the mapper, so the
// non-single_turn branch only ever writes the messages shape.
func schemaFor(format string) string {
	var fields []map[string]any
	if format == row.FormatSingleTurn {
		fields = []map[string]any{
			{"Tag": "name=question, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
			{"Tag": "name=answer, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
		}
	} else {
		element := map[string]any{
			"Tag": "name=element, repetitiontype=REQUIRED",
			"Fields": []map[string]any{
				{"Tag": "name=role, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
				{"Tag": "name=content, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=REQUIRED"},
			},
		}
		fields = []map[string]any{{
			"Tag":    "name=messages, type=LIST, repetitiontype=REQUIRED",
			"Fields": []map[string]any{element},
		}}
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, _ := json.Marshal(out)
	return string(b)
}
