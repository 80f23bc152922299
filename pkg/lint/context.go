package lint

import (
	"context"

	"github.com/yaklabco/herblint/pkg/config"
)

// Context is the caller-supplied context of one Lint or Autofix call.
// It is read-only for the duration of the call.
type Context struct {
	// Ctx carries tracing and cancellation. Nil means context.Background().
	Ctx context.Context

	// FileName is the logical path of the source, used for include/exclude
	// globs, the legacy-debt lookup and file-identity rules. May be empty.
	FileName string

	// IgnoreDisableComments reports offenses that herb:disable comments
	// would otherwise suppress.
	IgnoreDisableComments bool

	// Config is the resolved project configuration (may be nil).
	Config *config.Config
}

func (c *Context) context() context.Context {
	if c == nil || c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// RuleContext provides all context needed by a rule to perform linting.
// The linter builds one per rule per call.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// FileName is the logical path of the source (may be empty).
	FileName string

	// Config is the resolved configuration (may be nil).
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Severity is the resolved severity for this rule.
	Severity config.Severity

	// ValidRuleNames lists every rule the linter knows, for rules that
	// validate rule names in directives.
	ValidRuleNames []string
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(ctx context.Context, fileName string, cfg *config.Config, ruleCfg *config.RuleConfig) *RuleContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RuleContext{
		Ctx:        ctx,
		FileName:   fileName,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a rule-specific integer option, or the default.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	switch val := rc.Option(key, defaultValue).(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	if s, ok := rc.Option(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	if b, ok := rc.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the default.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	// YAML decodes sequences as []any.
	if items, ok := v.([]any); ok {
		result := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
