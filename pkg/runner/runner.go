package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/lint"
)

// Runner lints many files through one pipeline.
type Runner struct {
	Pipeline *lint.Pipeline
}

// New creates a Runner.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files and processes them concurrently, at most opts.Jobs
// at a time. A file that fails is recorded on its outcome and does not
// stop the others. Outcomes are in path order. The error result is set
// only when discovery fails or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	logging.FromContext(ctx).Debug("linting files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
	)

	base := lint.PipelineOptionsFromConfig(opts.Config)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileOpts := base
			fileOpts.FileName = file.Name

			outcome := FileOutcome{Path: file.Path, Name: file.Name}
			fileCtx := logging.With(gctx, logging.FieldPath, file.Name)
			pr, err := r.Pipeline.ProcessFile(fileCtx, file.Path, opts.Config, fileOpts)
			if err != nil {
				outcome.Error = err
			} else {
				outcome.Result = pr
			}
			result.Files[i] = outcome
			return nil
		})
	}
	waitErr := g.Wait()

	processed := result.Files[:0]
	for _, outcome := range result.Files {
		if outcome.Path == "" {
			continue
		}
		processed = append(processed, outcome)
		result.accumulate(outcome)
	}
	result.Files = processed

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
