package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/herblint/internal/ui/pretty"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/lint"
)

const formatJSON = "json"

// ruleInfo is a rule in `rules` output.
type ruleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Fixable     bool   `json:"fixable"`
}

func newRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List the built-in and custom rules with their default severity, whether
they are enabled for this project and whether they can be autofixed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != formatJSON {
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, format)
			}
			proj, err := openProject(cmd, &config.Config{})
			if err != nil {
				return err
			}
			infos := collectRules(proj.linter.Registry(), proj.config())
			if format == formatJSON {
				return writeRulesJSON(cmd.OutOrStdout(), infos)
			}
			color, err := cmd.Flags().GetString(flagColor)
			if err != nil {
				return fmt.Errorf("get %s flag: %w", flagColor, err)
			}
			writeRulesText(cmd.OutOrStdout(), infos, pretty.NewStyles(pretty.IsColorEnabled(color, cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// collectRules describes every registered rule as resolved for cfg.
func collectRules(registry *lint.Registry, cfg *config.Config) []ruleInfo {
	names := registry.SortedNames()
	infos := make([]ruleInfo, 0, len(names))
	for _, name := range names {
		rule, ok := registry.Get(name)
		if !ok {
			continue
		}
		defaults := rule.Defaults()
		_, fixable := rule.(lint.Fixer)
		info := ruleInfo{
			Name:        name,
			Description: rule.Description(),
			Kind:        rule.Kind().String(),
			Severity:    string(defaults.Severity),
			Enabled:     defaults.Enabled,
			Fixable:     fixable,
		}
		if rc, ok := cfg.Rules[name]; ok {
			if rc.Enabled != nil {
				info.Enabled = *rc.Enabled
			}
			if rc.Severity != nil {
				info.Severity = *rc.Severity
			}
		}
		switch {
		case slices.Contains(cfg.DisableRules, name):
			info.Enabled = false
		case slices.Contains(cfg.EnableRules, name):
			info.Enabled = true
		}
		infos = append(infos, info)
	}
	return infos
}

func writeRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return nil
}

func writeRulesText(w io.Writer, infos []ruleInfo, styles *pretty.Styles) {
	width := 0
	for _, info := range infos {
		width = max(width, len(info.Name))
	}

	for _, info := range infos {
		name := info.Name + strings.Repeat(" ", width-len(info.Name))
		status := styles.Dim.Render("disabled")
		if info.Enabled {
			name = styles.Bold.Render(name)
			status = "enabled "
		}
		fixable := "       "
		if info.Fixable {
			fixable = styles.Success.Render("fixable")
		}
		sev := info.Severity + strings.Repeat(" ", max(len("warning")-len(info.Severity), 0))
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", name, status, sev, fixable, info.Description)
	}
	fmt.Fprintf(w, "\n%d rules\n", len(infos))
}
