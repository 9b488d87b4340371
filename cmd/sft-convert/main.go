// Package main implements the sft-convert CLI, which converts QA datasets
// (JSON array or line-delimited JSON) into parquet files for supervised
// fine-tuning.
package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/nucleus/sft-convert/internal/config"
	"github.com/nucleus/sft-convert/internal/convert"
)

func main() {
	opts, err := config.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	runID := uuid.NewString()
	log.Printf("run=%s converting %s -> %s (format=%s, batch_size=%d)",
		runID, opts.InputPath, opts.OutputPath, opts.Format, opts.BatchSize)

	total, err := convert.Run(context.Background(), opts)
	if err != nil {
		log.Fatalf("run=%s conversion failed: %v", runID, err)
	}
	log.Printf("run=%s wrote %d rows -> %s", runID, total, opts.OutputPath)
}
