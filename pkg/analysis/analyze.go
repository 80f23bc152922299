package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/runner"
)

// ReportVersion is the version of the report format.
const ReportVersion = "1.0.0"

// Analyze builds a Report in one pass over the run's offenses.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion, Timestamp: time.Now()}
	if result == nil {
		return report
	}

	files := make(map[string]*FileAnalysis)
	rules := make(map[string]*RuleAnalysis)
	var fileOrder, ruleOrder []string

	t := &report.Totals
	t.Files = result.Stats.FilesProcessed
	t.FilesIgnored = result.Stats.FilesIgnored
	t.FilesModified = result.Stats.FilesModified
	t.Fixed = result.Stats.Fixed
	t.Ignored = result.Stats.Ignored
	t.Failing = result.Stats.Failing

	for i := range result.Files {
		outcome := &result.Files[i]
		if outcome.Error != nil {
			report.Errors = append(report.Errors, FileError{File: outcome.Name, Message: outcome.Error.Error()})
			continue
		}

		offenses := outcome.Offenses()
		if len(offenses) > 0 {
			t.FilesWithIssues++
		}

		for _, o := range offenses {
			fa, ok := files[outcome.Name]
			if !ok {
				fa = &FileAnalysis{Path: outcome.Name}
				files[outcome.Name] = fa
				fileOrder = append(fileOrder, outcome.Name)
			}
			ra, ok := rules[o.Rule]
			if !ok {
				ra = &RuleAnalysis{Rule: o.Rule}
				rules[o.Rule] = ra
				ruleOrder = append(ruleOrder, o.Rule)
			}

			t.Offenses++
			fa.Offenses++
			ra.Offenses++
			switch o.Severity {
			case config.SeverityError:
				t.Errors++
				fa.Errors++
				ra.Errors++
			case config.SeverityWarning:
				t.Warnings++
				fa.Warnings++
				ra.Warnings++
			case config.SeverityInfo:
				t.Infos++
			case config.SeverityHint:
				t.Hints++
			}
			if o.Tolerated {
				t.Tolerated++
				fa.Tolerated++
				ra.Tolerated++
			}
			if o.CanAutofix() {
				t.Fixable++
				ra.Fixable = true
			}
			if !slices.Contains(fa.Rules, o.Rule) {
				fa.Rules = append(fa.Rules, o.Rule)
			}
			if !slices.Contains(ra.Files, outcome.Name) {
				ra.Files = append(ra.Files, outcome.Name)
			}

			if opts.IncludeOffenses {
				report.Offenses = append(report.Offenses, OffenseEntry{
					File:      outcome.Name,
					Rule:      o.Rule,
					Code:      o.Code,
					Source:    o.Source,
					Severity:  string(o.Severity),
					Message:   o.Message,
					Line:      o.Location.Start.Line,
					Column:    o.Location.Start.Column,
					EndLine:   o.Location.End.Line,
					EndColumn: o.Location.End.Column,
					Fixable:   o.CanAutofix(),
					Tolerated: o.Tolerated,
				})
			}
		}
	}

	if opts.IncludeByFile {
		for _, name := range fileOrder {
			fa := files[name]
			slices.Sort(fa.Rules)
			report.ByFile = append(report.ByFile, *fa)
		}
		sortBy(report.ByFile, opts, func(f FileAnalysis) (string, int, int, int) {
			return f.Path, f.Offenses, f.Errors, f.Warnings
		})
	}
	if opts.IncludeByRule {
		for _, name := range ruleOrder {
			ra := rules[name]
			slices.Sort(ra.Files)
			report.ByRule = append(report.ByRule, *ra)
		}
		sortBy(report.ByRule, opts, func(r RuleAnalysis) (string, int, int, int) {
			return r.Rule, r.Offenses, r.Errors, r.Warnings
		})
	}

	return report
}

// sortBy orders rows by opts.SortBy, breaking ties by name so output is
// stable across runs.
func sortBy[T any](rows []T, opts Options, key func(T) (name string, total, errors, warnings int)) {
	slices.SortStableFunc(rows, func(a, b T) int {
		an, at, ae, aw := key(a)
		bn, bt, be, bw := key(b)
		switch opts.SortBy {
		case SortByAlpha:
			return cmp.Compare(an, bn)
		case SortBySeverity:
			return cmp.Or(cmp.Compare(be, ae), cmp.Compare(bw, aw), cmp.Compare(bt, at), cmp.Compare(an, bn))
		default:
			c := cmp.Compare(at, bt)
			if opts.SortDesc {
				c = -c
			}
			return cmp.Or(c, cmp.Compare(an, bn))
		}
	})
}
