// Package config provides run configuration for sft-convert.
package config

import (
	"flag"
	"fmt"

	"github.com/nucleus/sft-convert/internal/row"
	"github.com/nucleus/sft-convert/internal/sink"
)

// Defaults for the designated record fields.
const (
	DefaultInputKey  = "question"
	DefaultOutputKey = "response"
)

// Options holds one conversion run's settings.
type Options struct {
	InputPath    string
	OutputPath   string
	InputKey     string
	OutputKey    string
	Format       string
	SystemPrompt string
	BatchSize    int
}

// ParseFlags parses command-line arguments into validated Options.
func ParseFlags(name string, args []string) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.InputPath, "input", "", "Input JSON/JSONL path")
	fs.StringVar(&opts.OutputPath, "output", "", "Output parquet path")
	fs.StringVar(&opts.InputKey, "input_key", DefaultInputKey, "Field name for prompt text")
	fs.StringVar(&opts.OutputKey, "output_key", DefaultOutputKey, "Field name for response text")
	fs.StringVar(&opts.Format, "format", row.FormatSingleTurn, "Output shape: single_turn or messages")
	fs.StringVar(&opts.SystemPrompt, "system_prompt", "", "Optional system prompt (messages format only)")
	fs.IntVar(&opts.BatchSize, "batch_size", sink.DefaultBatchSize, "Write batch size")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks required settings.
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return fmt.Errorf("--input is required")
	}
	if o.OutputPath == "" {
		return fmt.Errorf("--output is required")
	}
	if o.BatchSize <= 0 {
		return fmt.Errorf("--batch_size must be positive, got %d", o.BatchSize)
	}
	return nil
}
