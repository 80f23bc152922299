package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/herblint/internal/ui/pretty"
	"github.com/yaklabco/herblint/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "clean",
			stats: runner.Stats{FilesProcessed: 4},
			want:  "No offenses found (4 files checked)\n",
		},
		{
			name:  "clean after fixing",
			stats: runner.Stats{FilesProcessed: 1, Fixed: 2, FilesModified: 1},
			want:  "No offenses found (1 file checked), 2 fixed in 1 file\n",
		},
		{
			name: "mixed",
			stats: runner.Stats{
				FilesProcessed: 3, FilesWithIssues: 2,
				Offenses: 3, Errors: 2, Warnings: 1, Fixable: 2,
			},
			want: "3 offenses (2 errors, 1 warning) in 2 files, 2 fixable\n",
		},
		{
			name: "tolerated and ignored",
			stats: runner.Stats{
				FilesProcessed: 1, FilesWithIssues: 1,
				Offenses: 1, Errors: 1, Tolerated: 1, Ignored: 2,
			},
			want: "1 offense (1 error) in 1 file, 1 tolerated, 2 ignored\n",
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}

func TestFormatSummaryVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{"passed", runner.Stats{FilesProcessed: 2}, "Lint passed"},
		{"failing", runner.Stats{Offenses: 1, Errors: 1, Failing: 1}, "Lint failed with errors"},
		{"tolerated", runner.Stats{Offenses: 1, Errors: 1, Tolerated: 1}, "Lint passed with tolerated errors"},
		{"warnings", runner.Stats{Offenses: 1, Warnings: 1}, "Lint completed with warnings"},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := styles.FormatSummary(tt.stats)
			assert.Contains(t, got, "Summary")
			assert.Contains(t, got, "Files checked:")
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFormatSummaryRows(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatSummary(runner.Stats{
		FilesProcessed: 10, FilesWithIssues: 3, FilesModified: 1,
		Offenses: 15, Errors: 5, Warnings: 10, Fixed: 4,
	})

	assert.Contains(t, got, "  Files checked:        10\n")
	assert.Contains(t, got, "  Files with offenses:  3\n")
	assert.Contains(t, got, "    Errors:             5\n")
	assert.Contains(t, got, "  Fixed:                4\n")
}
