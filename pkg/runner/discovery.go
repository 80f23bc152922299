package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/herblint/pkg/langdetect"
	"github.com/yaklabco/herblint/pkg/lint"
)

// File is one template selected for linting.
type File struct {
	// Path is absolute and used for I/O.
	Path string

	// Name is Path relative to the project root, with forward slashes.
	Name string
}

// Discover returns the templates selected by opts, sorted by path.
//
// Directory walks pick up files detected as HTML+ERB by extension and files
// matching opts.Include. They skip hidden and vendored directories and
// anything matching opts.Exclude. A file named explicitly is linted when
// its extension or content looks like HTML or HTML+ERB, unless excluded.
func Discover(ctx context.Context, opts Options) ([]File, error) {
	workDir, err := absDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}
	root := workDir
	if opts.Root != "" {
		if root, err = absDir(opts.Root); err != nil {
			return nil, err
		}
	}

	d := &discoverer{opts: opts, root: root, seen: make(map[string]bool)}
	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if info.IsDir() {
			if err := d.walk(ctx, path); err != nil {
				return nil, err
			}
			continue
		}

		excluded, err := d.excluded(path, false)
		if err != nil {
			return nil, err
		}
		if !excluded && d.explicitMatch(path) {
			d.add(path)
		}
	}

	sort.Slice(d.files, func(i, j int) bool { return d.files[i].Path < d.files[j].Path })
	return d.files, nil
}

func absDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

type discoverer struct {
	opts  Options
	root  string
	seen  map[string]bool
	files []File
}

func (d *discoverer) name(path string) string {
	rel, err := filepath.Rel(d.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) add(path string) {
	if d.seen[path] {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, File{Path: path, Name: d.name(path)})
}

func (d *discoverer) excluded(path string, dir bool) (bool, error) {
	if len(d.opts.Exclude) == 0 {
		return false, nil
	}
	name := d.name(path)
	if dir {
		name += "/"
	}
	matched, err := lint.MatchPath(d.opts.Exclude, name)
	if err != nil {
		return false, fmt.Errorf("exclude: %w", err)
	}
	return matched, nil
}

func (d *discoverer) walkMatch(path string) (bool, error) {
	if langdetect.IsERB(path) {
		return true, nil
	}
	if len(d.opts.Include) == 0 {
		return false, nil
	}
	matched, err := lint.MatchPath(d.opts.Include, d.name(path))
	if err != nil {
		return false, fmt.Errorf("include: %w", err)
	}
	return matched, nil
}

func (d *discoverer) explicitMatch(path string) bool {
	if matched, err := d.walkMatch(path); err == nil && matched {
		return true
	}
	head, err := readHead(path)
	if err != nil {
		return false
	}
	return langdetect.Detect(path, head) != langdetect.LangOther
}

// readHead returns up to the first 8 KiB of a file for content detection.
func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, 8<<10)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	return buf[:n], nil
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || langdetect.IsVendored(d.name(path)+"/") {
				return filepath.SkipDir
			}
			if skip, err := d.excluded(path, true); err != nil || skip {
				if err != nil {
					return err
				}
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				return d.walk(ctx, target)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if skip, err := d.excluded(path, false); err != nil || skip {
			return err
		}
		matched, err := d.walkMatch(path)
		if err != nil {
			return err
		}
		if matched {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}
