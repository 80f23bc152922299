package runner

import "github.com/yaklabco/herblint/pkg/lint"

// FileOutcome is the result of one file.
type FileOutcome struct {
	// Path is the absolute path.
	Path string

	// Name is the path relative to the project root.
	Name string

	// Result is nil when Error is set.
	Result *lint.PipelineResult

	Error error
}

// Offenses returns the offenses of the outcome, or nil.
func (o *FileOutcome) Offenses() []lint.Offense {
	if o.Result == nil || o.Result.Result == nil {
		return nil
	}
	return o.Result.Offenses
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int
	FilesWithIssues int

	// FilesSkipped counts files left unwritten: concurrent edits or fixes
	// that broke the document.
	FilesSkipped int

	// FilesIgnored counts files that opted out with herb:linter ignore.
	FilesIgnored int

	FilesModified int

	Offenses int
	Errors   int
	Warnings int
	Fixable  int
	Fixed    int

	// Ignored counts offenses removed by herb:disable comments.
	Ignored int

	// Tolerated counts offenses within the legacy-debt budget.
	Tolerated int

	// Failing counts errors beyond the legacy-debt budget.
	Failing int
}

// Result is the outcome of a run.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any error fell outside the legacy-debt budget.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.Failing > 0
}

// HasIssues reports whether any offense was reported.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.Offenses > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}
	r.Stats.Fixed += len(pr.Fixed)

	res := pr.Result
	if res == nil {
		return
	}
	if res.Skipped {
		r.Stats.FilesIgnored++
	}
	if len(res.Offenses) > 0 {
		r.Stats.FilesWithIssues++
	}

	r.Stats.Offenses += len(res.Offenses)
	r.Stats.Errors += res.Errors
	r.Stats.Warnings += res.Warnings
	r.Stats.Ignored += res.Ignored
	r.Stats.Tolerated += res.ToleratedErrors + res.ToleratedWarnings
	r.Stats.Failing += res.Failing()
	for _, o := range res.Offenses {
		if o.CanAutofix() {
			r.Stats.Fixable++
		}
	}
}
