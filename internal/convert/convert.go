// Package convert runs the conversion pipeline: reader -> mapper -> sink.
package convert

import (
	"context"

	"github.com/nucleus/sft-convert/internal/config"
	"github.com/nucleus/sft-convert/internal/dataset"
	"github.com/nucleus/sft-convert/internal/row"
	"github.com/nucleus/sft-convert/internal/sink"
)

// Run executes one conversion end to end and returns the number of rows
// written. The first offending record aborts the whole run; the output
// handle is released on every exit path.
func Run(ctx context.Context, opts *config.Options) (int64, error) {
	items, err := dataset.Open(opts.InputPath)
	if err != nil {
		return 0, err
	}
	defer items.Close()

	mapper := row.NewMapper(opts.InputKey, opts.OutputKey, opts.Format, opts.SystemPrompt)
	out := sink.New(opts.OutputPath, opts.Format, opts.BatchSize)

	for items.Next() {
		if err := ctx.Err(); err != nil {
			_ = out.Abort()
			return 0, err
		}
		mapped, err := mapper.Map(items.Value())
		if err != nil {
			_ = out.Abort()
			return 0, err
		}
		if err := out.Append(mapped); err != nil {
			_ = out.Abort()
			return 0, err
		}
	}
	if err := items.Err(); err != nil {
		_ = out.Abort()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return out.Total(), nil
}
