package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/herblint/pkg/analysis"
)

// JSONOutput is the top-level JSON document.
type JSONOutput struct {
	Tool string `json:"tool"`

	// ToolVersion is the herblint version, Version the report format.
	ToolVersion string `json:"toolVersion"`

	*analysis.Report
}

// JSONRenderer writes an analysis.Report as JSON.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report.Offenses == nil {
		report.Offenses = []analysis.OffenseEntry{}
	}

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(JSONOutput{Tool: toolName, ToolVersion: r.opts.ToolVersion, Report: report}); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
