// Package config defines core configuration types for herblint.
// These types are pure data structures; discovery and merging live in internal/configloader.
package config

// Severity represents the severity level of a lint offense.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityHint:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration overrides from the project file.
type RuleConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty"`
	AutoFix  *bool   `yaml:"auto_fix,omitempty"`

	// Include and Exclude are file globs restricting where the rule runs.
	// Include replaces the rule's default include list; Exclude is added to it.
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	Options map[string]any `yaml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar", "xdg", etc.
}

// OutputFormat specifies the output format for offenses.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// DefaultTodoFile is the legacy-debt file name looked up next to the config.
const DefaultTodoFile = ".herb-todo.yml"

// Config is the root configuration structure for herblint.
type Config struct {
	// Rules contains per-rule configuration keyed by rule name.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`

	// Include contains glob patterns for files to lint in addition to
	// the files detected as HTML+ERB.
	Include []string `yaml:"include,omitempty"`

	// Exclude contains glob patterns for files to skip.
	Exclude []string `yaml:"exclude,omitempty"`

	// CustomRules contains glob patterns for custom rule plugins,
	// relative to the project root.
	CustomRules []string `yaml:"custom_rules,omitempty"`

	// TodoFile is the legacy-debt file, relative to the project root.
	TodoFile string `yaml:"todo_file,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of offenses.
	Fix bool `yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// EnableRules contains rule names to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule names to explicitly disable.
	DisableRules []string `yaml:"-"`

	// FixRules limits auto-fixing to specific rule names.
	FixRules []string `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`

	// IgnoreDisableComments reports offenses even where herb:disable
	// comments would suppress them.
	IgnoreDisableComments bool `yaml:"-"`

	// NoTodo ignores the legacy-debt file.
	NoTodo bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules:    make(map[string]RuleConfig),
		TodoFile: DefaultTodoFile,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}
