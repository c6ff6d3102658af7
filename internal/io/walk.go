package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ErrScanRoot is returned when the scan root is missing, not a directory,
// or cannot be read.
var ErrScanRoot = errors.New("invalid scan root")

// WalkOptions configures CollectFiles.
//
// The zero value collects every regular file.
type WalkOptions struct {
	// Exclude holds gitignore-style patterns matched against the slash
	// separated path relative to the scan root. Excluded directories are
	// not descended into.
	Exclude []string

	// IgnoreFile is an optional file of gitignore-style patterns, combined
	// with Exclude.
	IgnoreFile string
}

// CollectFiles returns the path of every regular file under root.
//
// The walk descends recursively and follows symbolic links to files and
// directories. A linked directory that resolves to one of its own ancestors
// is not entered again. Each directory is read completely before any of its
// children is visited, so at most one directory handle is open at a time.
//
// Paths are built by joining the root (trailing separators removed) and the
// entry names with a single separator; they are never cleaned, so root is
// always a byte prefix of every returned path.
//
// Directories, special files, dangling links and unreadable entries below
// root are skipped silently. An unusable root fails the whole call with an
// error wrapping ErrScanRoot.
//
// The returned order is unspecified; use SortPaths.
//
// Example:
//
//	paths, err := CollectFiles("/music", WalkOptions{Exclude: []string{"*.txt"}})
//	if err != nil {
//	    return err
//	}
//	SortPaths(paths)
func CollectFiles(root string, opts WalkOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrScanRoot, root)
	}

	matcher, err := compileExcludes(opts)
	if err != nil {
		return nil, err
	}

	w := &walker{matcher: matcher}
	if err := w.walk(trimTrailingSeparators(root), "", []os.FileInfo{info}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanRoot, err)
	}

	return w.files, nil
}

// SortPaths sorts paths in place by ascending byte-wise comparison.
//
// The sort is stable, so equal paths keep their relative order.
func SortPaths(paths []string) {
	slices.SortStableFunc(paths, strings.Compare)
}

// ResolveRoot returns the canonical absolute form of root.
//
// Symbolic links are resolved. The result must name an existing directory,
// otherwise an error wrapping ErrScanRoot is returned.
func ResolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanRoot, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanRoot, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrScanRoot, root)
	}
	return resolved, nil
}

type walker struct {
	matcher *ignore.GitIgnore
	files   []string
}

// walk collects the files below dir. rel is dir relative to the scan root
// in slash form ("" for the root itself); ancestors holds the directories on
// the current descent path.
func (w *walker) walk(dir, rel string, ancestors []os.FileInfo) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	prefix := dir
	if !os.IsPathSeparator(dir[len(dir)-1]) {
		prefix += string(filepath.Separator)
	}

	for _, entry := range entries {
		path := prefix + entry.Name()
		relPath := entry.Name()
		if rel != "" {
			relPath = rel + "/" + entry.Name()
		}

		// Stat follows symlinks; dangling links fail here and are skipped.
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		switch {
		case info.IsDir():
			if w.excluded(relPath, true) || revisits(info, ancestors) {
				continue
			}
			// Unreadable subdirectories are skipped, not reported.
			_ = w.walk(path, relPath, append(ancestors, info))
		case info.Mode().IsRegular():
			if w.excluded(relPath, false) {
				continue
			}
			w.files = append(w.files, path)
		}
	}

	return nil
}

func (w *walker) excluded(relPath string, dir bool) bool {
	if w.matcher == nil {
		return false
	}
	if w.matcher.MatchesPath(relPath) {
		return true
	}
	return dir && w.matcher.MatchesPath(relPath+"/")
}

// revisits reports whether info is the same directory as one of ancestors.
func revisits(info os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}

func compileExcludes(opts WalkOptions) (*ignore.GitIgnore, error) {
	if opts.IgnoreFile != "" {
		matcher, err := ignore.CompileIgnoreFileAndLines(opts.IgnoreFile, opts.Exclude...)
		if err != nil {
			return nil, fmt.Errorf("read ignore file %s: %w", opts.IgnoreFile, err)
		}
		return matcher, nil
	}
	if len(opts.Exclude) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(opts.Exclude...), nil
}

func trimTrailingSeparators(path string) string {
	for len(path) > 1 && os.IsPathSeparator(path[len(path)-1]) {
		path = path[:len(path)-1]
	}
	return path
}
