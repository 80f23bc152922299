// Package runner lints many templates concurrently through a lint.Pipeline.
package runner

import "github.com/yaklabco/herblint/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to lint. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths. Defaults to the process's
	// working directory.
	WorkingDir string

	// Root is the project root. File names handed to rules, globs and the
	// legacy-debt store are relative to it. Defaults to WorkingDir.
	Root string

	// Include globs select files beyond those detected as HTML+ERB.
	Include []string

	// Exclude globs skip files and directories.
	Exclude []string

	// FollowSymlinks traverses symlinked directories.
	FollowSymlinks bool

	// Jobs caps concurrent files. 0 or less means runtime.NumCPU().
	Jobs int

	Config *config.Config
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
