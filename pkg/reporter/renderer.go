package reporter

import (
	"context"

	"github.com/yaklabco/herblint/pkg/analysis"
)

// Renderer formats an analysis.Report. Renderers hold no state between
// calls and only handle presentation.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}
