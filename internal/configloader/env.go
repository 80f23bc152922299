package configloader

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
)

// EnvPrefix starts every environment variable herblint reads.
const EnvPrefix = "HERBLINT_"

// envVar maps one environment variable onto the configuration.
type envVar struct {
	help  string
	apply func(cfg *config.Config, value string) error
}

// envVars is keyed by the variable name without EnvPrefix.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"FORMAT": {
		help: "Output format: text, json, sarif, diff or summary",
		apply: func(cfg *config.Config, v string) error {
			cfg.Format = config.OutputFormat(v)
			return nil
		},
	},
	"JOBS": {
		help: "Number of parallel workers (0 = auto)",
		apply: func(cfg *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: expected an integer, got %q", errInvalidEnv, v)
			}
			cfg.Jobs = n
			return nil
		},
	},
	"FIX":                     boolVar("Apply autofixes", func(c *config.Config, b bool) { c.Fix = b }),
	"DRY_RUN":                 boolVar("Show fixes as a diff without writing", func(c *config.Config, b bool) { c.DryRun = b }),
	"BACKUPS_ENABLED":         boolVar("Back up files before fixing", func(c *config.Config, b bool) { c.Backups.Enabled = b }),
	"NO_BACKUPS":              boolVar("Never back up files", func(c *config.Config, b bool) { c.NoBackups = b }),
	"NO_TODO":                 boolVar("Ignore the legacy-debt file", func(c *config.Config, b bool) { c.NoTodo = b }),
	"IGNORE_DISABLE_COMMENTS": boolVar("Report offenses covered by herb:disable comments", func(c *config.Config, b bool) { c.IgnoreDisableComments = b }),
	"BACKUPS_MODE": {
		help: "Backup mode: sidecar, xdg or none",
		apply: func(cfg *config.Config, v string) error {
			cfg.Backups.Mode = v
			return nil
		},
	},
	"TODO_FILE": {
		help: "Legacy-debt file, relative to the project root",
		apply: func(cfg *config.Config, v string) error {
			cfg.TodoFile = v
			return nil
		},
	},
	"EXCLUDE": {
		help: "Comma-separated globs of files to skip",
		apply: func(cfg *config.Config, v string) error {
			cfg.Exclude = splitList(v)
			return nil
		},
	},
}

var errInvalidEnv = errors.New("invalid environment value")

func boolVar(help string, set func(*config.Config, bool)) envVar {
	return envVar{
		help: help,
		apply: func(cfg *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: expected true or false, got %q", errInvalidEnv, v)
			}
			set(cfg, b)
			return nil
		},
	}
}

// LoadFromEnv applies the HERBLINT_* variables that are set to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, name := range sortedEnvNames() {
		value, ok := os.LookupEnv(EnvPrefix + name)
		if !ok || value == "" {
			continue
		}
		if err := envVars[name].apply(cfg, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for name, v := range envVars {
		out[EnvPrefix+name] = v.help
	}
	return out
}

func sortedEnvNames() []string {
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
