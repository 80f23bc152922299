// Package configloader resolves the configuration of a herblint run. It
// discovers .herb.yml files, merges them with environment variables and
// CLI flags, validates the result and loads the legacy-debt file.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/fsutil"
	"github.com/yaklabco/herblint/pkg/lint"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Defaults to
	// the current directory.
	WorkingDir string

	// ExplicitPath is a config file given with --config. It is merged
	// after the discovered files.
	ExplicitPath string

	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// CLIConfig holds flag values. It has the highest precedence.
	CLIConfig *config.Config
}

// LoadResult is a resolved configuration.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// Root is the project root: the directory of the project config, or
	// the working directory when there is none. Include, exclude and
	// custom rule patterns and the todo file are relative to it.
	Root string

	// LoadedFrom lists the files merged, lowest precedence first.
	LoadedFrom []string

	// Debt holds the legacy-debt budgets, empty when there is no todo
	// file or NoTodo is set.
	Debt *lint.DebtStore

	// DebtPath is the todo file that was loaded, if any.
	DebtPath string

	Warnings []string
}

// Load merges, lowest precedence first: defaults, the user config, the
// project config, the explicit config, HERBLINT_* environment variables
// and CLI flags. It fails on unreadable or invalid configuration.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths, Root: workDir}
	if !opts.IgnoreProjectConfig && paths.Project != "" {
		result.Root = filepath.Dir(paths.Project)
	}

	layers := []struct {
		path string
		skip bool
	}{
		{paths.User, opts.IgnoreUserConfig},
		{paths.Project, opts.IgnoreProjectConfig},
		{paths.Explicit, false},
	}

	cfg := config.NewConfig()
	for _, layer := range layers {
		if layer.path == "" || layer.skip {
			continue
		}
		fileCfg, err := LoadFile(layer.path)
		if err != nil {
			return nil, err
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		logger.Debug("loaded config", logging.FieldConfig, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, err
		}
	}
	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	result.Config = cfg

	if err := result.loadDebt(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadFile reads one YAML configuration file.
func LoadFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if v := Validate(cfg); !v.Valid() {
		err := v.Errors[0]
		err.FilePath = path
		return nil, &err
	}
	return cfg, nil
}

// TodoPath returns the absolute path of the legacy-debt file.
func (r *LoadResult) TodoPath() string {
	name := r.Config.TodoFile
	if name == "" {
		name = config.DefaultTodoFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.Root, name)
}

func (r *LoadResult) loadDebt() error {
	r.Debt = lint.NewDebtStore()
	if r.Config.NoTodo {
		return nil
	}

	path := r.TodoPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read legacy-debt file: %w", err)
	}

	store, err := lint.ParseDebt(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r.Debt = store
	r.DebtPath = path
	return nil
}

// todoHeader starts every generated legacy-debt file.
const todoHeader = `# herblint legacy-debt file.
# Offenses counted here are still reported but do not fail a run.
# Regenerate with: herblint todo
`

// SaveDebt writes store to path atomically, with a header comment.
func SaveDebt(ctx context.Context, path string, store *lint.DebtStore) error {
	body, err := store.ToYAML()
	if err != nil {
		return fmt.Errorf("encode legacy-debt file: %w", err)
	}
	content := append([]byte(todoHeader), body...)
	if err := fsutil.WriteAtomic(ctx, path, content, 0); err != nil {
		return fmt.Errorf("write legacy-debt file: %w", err)
	}
	return nil
}
