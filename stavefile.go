//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/herblint"
	mainPkg = "./cmd/herblint"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test,
	"l":  Lint,
	"c":  Check,
	"i":  Install,
	"bv": Bench.Views,
}

// Namespace types group related targets.
type (
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles herblint with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary + " is up to date")
		return nil
	}
	fmt.Println("Building herblint...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Fmt, Lint, Test)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs herblint to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing herblint...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Test runs the race-enabled suite through gotestsum. HERBLINT_TEST_FORMAT
// picks the gotestsum format.
func Test() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", cmp.Or(os.Getenv("HERBLINT_TEST_FORMAT"), "pkgname-and-test-fails"),
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Lint runs golangci-lint, fixing what it can outside CI.
func Lint() error {
	args := []string{"run", "./..."}
	if os.Getenv("CI") == "" {
		args = append(args, "--fix")
	}
	return sh.RunV("golangci-lint", args...)
}

// Fmt formats Go code, or only lists unformatted files under CI.
func Fmt() error {
	if os.Getenv("CI") == "" {
		return sh.RunV("gofmt", "-w", ".")
	}
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs every check CI runs.
func (CI) Gate() {
	st.SerialDeps(Fmt, Lint, Build, Test, CI.ModTidy, CI.Cross)
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	return sh.RunV("go", "mod", "tidy", "-diff")
}

// Cross builds for the platforms herblint ships on.
func (CI) Cross() error {
	for _, goos := range []string{"linux", "darwin", "windows"} {
		for _, goarch := range []string{"amd64", "arm64"} {
			env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
			if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
				return fmt.Errorf("build %s/%s: %w", goos, goarch, err)
			}
		}
	}
	return nil
}

// Default runs the parser and rule benchmarks.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/...")
}

// Views times a full lint of the views directory named by
// HERBLINT_BENCH_DIR.
func (Bench) Views() error {
	dir := os.Getenv("HERBLINT_BENCH_DIR")
	if dir == "" {
		return errors.New("HERBLINT_BENCH_DIR is not set")
	}
	st.Deps(Build)
	start := time.Now()
	cmd := exec.Command(binary, "lint", "--format", "summary", "--no-todo", dir) //nolint:gosec // dir is set by the developer
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	fmt.Printf("linted %s in %s\n", dir, time.Since(start).Round(time.Millisecond))

	// Exit status 1 only means offenses were found.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}
	return err
}

// ldflags injects version, commit and build date into main.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

// gitOutput returns trimmed git output, or "" when git fails.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
