// Package analysis aggregates a run into the views reporters render:
// a flat offense list, per-file and per-rule breakdowns and totals.
package analysis

import "time"

// Report is computed once by Analyze and shared by the renderers.
type Report struct {
	Offenses []OffenseEntry `json:"offenses"`
	ByFile   []FileAnalysis `json:"byFile,omitempty"`
	ByRule   []RuleAnalysis `json:"byRule,omitempty"`
	Totals   Totals         `json:"summary"`

	// Errors lists files that could not be processed.
	Errors []FileError `json:"errors,omitempty"`

	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// OffenseEntry is one offense with its file.
type OffenseEntry struct {
	File      string `json:"file"`
	Rule      string `json:"rule"`
	Code      string `json:"code"`
	Source    string `json:"source"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Fixable   bool   `json:"fixable"`
	Tolerated bool   `json:"tolerated,omitempty"`
}

// FileError is a file that failed to process.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Totals aggregates the whole run.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesIgnored    int `json:"filesIgnored"`
	FilesModified   int `json:"filesModified"`
	Offenses        int `json:"totalOffenses"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
	Hints           int `json:"hints"`
	Fixable         int `json:"fixable"`
	Fixed           int `json:"fixed"`

	// Ignored counts offenses suppressed by herb:disable comments.
	Ignored int `json:"ignored"`

	// Tolerated counts offenses within the legacy-debt budget.
	Tolerated int `json:"tolerated"`

	// Failing counts errors beyond the legacy-debt budget.
	Failing int `json:"failing"`
}

// HasIssues reports whether any offense was found.
func (t Totals) HasIssues() bool {
	return t.Offenses > 0
}

// HasErrors reports whether any error was found, tolerated or not.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis aggregates one file.
type FileAnalysis struct {
	Path      string   `json:"path"`
	Offenses  int      `json:"offenses"`
	Errors    int      `json:"errors"`
	Warnings  int      `json:"warnings"`
	Tolerated int      `json:"tolerated"`
	Rules     []string `json:"rules,omitempty"`
}

// RuleAnalysis aggregates one rule.
type RuleAnalysis struct {
	Rule      string   `json:"rule"`
	Offenses  int      `json:"offenses"`
	Errors    int      `json:"errors"`
	Warnings  int      `json:"warnings"`
	Tolerated int      `json:"tolerated"`
	Fixable   bool     `json:"fixable"`
	Files     []string `json:"files,omitempty"`
}
