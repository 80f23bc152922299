package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/herblint/internal/logging"
	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/fix"
	"github.com/yaklabco/herblint/pkg/fsutil"
)

// DefaultMaxFixPasses is the maximum number of autofix passes per file.
// Each pass is a full lint and print; rules whose fixes expose new offenses
// converge within a few passes.
const DefaultMaxFixPasses = 10

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file through the safety pipeline.
type PipelineResult struct {
	// Result is the lint result of the final content. After fixing it lists
	// only what remains.
	*Result

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the file content was changed.
	Modified bool

	// ModifiedContent is the new content after fixing (nil if not modified).
	ModifiedContent []byte

	// Content is the text the remaining offenses point into.
	Content []byte

	// Fixed holds the offenses fixed across all passes.
	Fixed []Offense

	// Diff is the fixed content against the original (nil if not modified).
	Diff *fix.Diff

	// Skipped is true if the file was skipped (e.g., due to concurrent modification).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of autofix passes performed.
	FixPasses int
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		if pr.BackupCreated {
			return "fixed (backup created)"
		}
		return "fixed"
	}
	if pr.Modified {
		return "changes pending"
	}
	if pr.Result != nil && pr.HasIssues() {
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls safety pipeline behavior.
type PipelineOptions struct {
	// Fix enables auto-fix mode.
	Fix bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// ReParseAfterFix re-parses the fixed content and discards the fixes
	// if they introduced parse errors.
	ReParseAfterFix bool

	// MaxFixPasses limits the number of autofix passes.
	// Set to 0 to use DefaultMaxFixPasses.
	MaxFixPasses int

	// IgnoreDisableComments is passed through to the linter.
	IgnoreDisableComments bool

	// FileName is the name rules, include/exclude globs and the legacy-debt
	// store see, usually relative to the project root. Defaults to the path.
	FileName string
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		ReParseAfterFix:     true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Linter runs the rules and fixes.
	Linter *Linter

	// Parser validates fixed content when ReParseAfterFix is set.
	Parser Parser
}

// NewPipeline creates a new safety pipeline around a linter.
func NewPipeline(linter *Linter) *Pipeline {
	return &Pipeline{Linter: linter, Parser: linter.parser}
}

// ProcessFile runs the full safety pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Lint, or autofix until stable or max passes (fix mode).
//  3. Optionally re-parse to validate fixes.
//  4. Generate the diff of the fixes.
//  5. Check for concurrent modifications.
//  6. Create backup (if enabled).
//  7. Write the modified content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	// Step 1: Read and hash the original file.
	originalContent, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, originalContent, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || result.Skipped || opts.DryRun {
		return result, nil
	}

	// Step 5: Check for concurrent modifications before writing.
	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		logger.Debug("not writing fixes", "reason", result.SkipReason)
		return result, nil
	}

	// Step 6: Create backup if enabled.
	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
		if created {
			logger.Debug("created backup", "mode", opts.Backup.Mode)
		}
	}

	// Step 7: Write the modified content atomically.
	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("wrote fixes", logging.FieldCount, len(result.Fixed), logging.FieldPasses, result.FixPasses)

	return result, nil
}

// ProcessContent lints or fixes in-memory content without file I/O.
// When fixes change the content it also computes the diff.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	originalContent []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &PipelineResult{Path: path, Content: originalContent}
	fileName := opts.FileName
	if fileName == "" {
		fileName = path
	}
	lctx := Context{
		Ctx:                   ctx,
		FileName:              fileName,
		IgnoreDisableComments: opts.IgnoreDisableComments,
		Config:                cfg,
	}
	original := string(originalContent)

	if !opts.Fix {
		result.Result = p.Linter.Lint(original, &lctx)
		return result, nil
	}

	// Step 2: Autofix passes.
	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}
	fixed, passes := p.Linter.AutofixUntilStable(ctx, original, lctx, maxPasses)
	result.FixPasses = passes
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	if fixed.Source == original {
		result.Result = fixed.Lint
		if result.Result == nil {
			result.Result = p.Linter.Lint(original, &lctx)
		}
		return result, nil
	}

	// Step 3: Reject fixes that break the document.
	if opts.ReParseAfterFix && p.Parser != nil {
		before := len(p.Parser.Parse(original, parseOptions()).Errors)
		after := len(p.Parser.Parse(fixed.Source, parseOptions()).Errors)
		if after > before {
			result.Result = p.Linter.Lint(original, &lctx)
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("fixes introduced %d parse error(s)", after-before)
			return result, nil
		}
	}

	result.Modified = true
	result.ModifiedContent = []byte(fixed.Source)
	result.Content = result.ModifiedContent
	result.Fixed = fixed.Fixed
	result.Result = p.Linter.Lint(fixed.Source, &lctx)

	// Step 4: Diff for dry-run output and the diff format.
	result.Diff = fix.GenerateDiff(fileName, originalContent, result.ModifiedContent)

	return result, nil
}

// checkModified checks if a file has been modified since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	var modified bool
	var err error

	if strict {
		modified, err = fsutil.CheckModified(ctx, info)
	} else {
		modified, err = fsutil.CheckModifiedQuick(ctx, info)
	}

	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
// It uses errors.Is for robust error detection rather than string matching.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	opts := DefaultPipelineOptions()
	opts.Fix = cfg.Fix
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	opts.IgnoreDisableComments = cfg.IgnoreDisableComments
	return opts
}
