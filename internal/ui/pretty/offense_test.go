package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/herblint/internal/ui/pretty"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/lint"
)

func tagOffense() *lint.Offense {
	return &lint.Offense{
		Rule:     "html-tag-name-lowercase",
		Message:  "Opening tag name `<DIV>` should be lowercase.",
		Severity: config.SeverityError,
		Location: erbast.Location{
			Start: erbast.Position{Line: 2, Column: 3},
			End:   erbast.Position{Line: 2, Column: 6},
		},
	}
}

func TestFormatOffense(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatOffense("app/views/a.html.erb", tagOffense(), "", 80)

	assert.Equal(t,
		"  app/views/a.html.erb:2:3  error  Opening tag name `<DIV>` should be lowercase.  html-tag-name-lowercase\n",
		got)
}

func TestFormatOffenseMarkers(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	o := tagOffense()
	o.Tolerated = true
	o.AutofixContext = &lint.AutofixContext{Node: 1}

	got := styles.FormatOffense("a.html.erb", o, "", 80)
	assert.Contains(t, got, "(tolerated)")
	assert.Contains(t, got, "[fixable]")
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatOffense("a.html.erb", tagOffense(), "  <DIV>", 80)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "       2 |   <DIV>", lines[1])
	assert.Equal(t, "         |   ^^^", lines[2])
}

func TestFormatSourceContextMultiline(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	o := tagOffense()
	o.Location.End = erbast.Position{Line: 4, Column: 1}

	got := styles.FormatSourceContext(o, "  <DIV", 80)
	assert.Contains(t, got, "|   ^^^^\n")
}

func TestFormatSourceContextTruncates(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	o := tagOffense()
	o.Location.Start.Column = 60
	o.Location.End.Column = 64

	got := styles.FormatSourceContext(o, strings.Repeat("a", 100), 40)
	first := strings.Split(got, "\n")[0]
	assert.True(t, strings.HasSuffix(first, "…"))
	assert.Less(t, len(first), 60)
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(config.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(config.SeverityWarning))
	assert.Equal(t, "info", styles.FormatSeverity(config.SeverityInfo))
	assert.Equal(t, "hint", styles.FormatSeverity(config.SeverityHint))
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "a.html.erb (1 offense)", styles.FormatFileHeader("a.html.erb", 1))
	assert.Equal(t, "a.html.erb (3 offenses)", styles.FormatFileHeader("a.html.erb", 3))
	assert.Equal(t, "a.html.erb", styles.FormatFileHeader("a.html.erb", 0))
}
