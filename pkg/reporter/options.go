package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/herblint/internal/ui/pretty"
	"github.com/yaklabco/herblint/pkg/analysis"
	"github.com/yaklabco/herblint/pkg/lint"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer receives the report (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives per-file errors (typically os.Stderr).
	ErrorWriter io.Writer

	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// ShowContext prints the source line under each offense.
	ShowContext bool

	// ShowSummary prints aggregate statistics after the offenses.
	ShowSummary bool

	// GroupByFile prints a header per file in text format.
	GroupByFile bool

	// Compact disables indentation in JSON and SARIF output.
	Compact bool

	// SortBy orders the summary tables.
	SortBy analysis.SortField

	// Registry supplies rule metadata to SARIF output.
	Registry *lint.Registry

	// ToolVersion is reported in JSON and SARIF output.
	ToolVersion string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       pretty.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		SortBy:      analysis.SortByCount,
		ToolVersion: "dev",
	}
}
