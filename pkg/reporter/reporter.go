// Package reporter writes lint run results in the supported output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/herblint/pkg/analysis"
	"github.com/yaklabco/herblint/pkg/runner"
)

var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes the result and returns the number of offenses reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade adapts a Renderer to Reporter by analyzing the result first.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Offenses, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	aopts := analysis.DefaultOptions()
	if opts.SortBy.IsValid() {
		aopts.SortBy = opts.SortBy
	}
	return &reporterFacade{renderer: renderer, analysisOpts: aopts}
}

// New creates the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = defaults.ErrorWriter
	}
	if opts.ToolVersion == "" {
		opts.ToolVersion = defaults.ToolVersion
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return newRendererFacade(NewJSONRenderer(opts), opts), nil
	case FormatSARIF:
		return newRendererFacade(NewSARIFRenderer(opts), opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
