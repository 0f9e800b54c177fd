// Package scan discovers projects under an analysis root and loads the
// starter-code corpus. Every direct child directory of the root is one
// project; its assembly files become byte buffers handed to the engine.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/armoss/internal/errors"
	"github.com/standardbeagle/armoss/internal/types"
)

// Scanner walks one analysis root. Include/Exclude are doublestar globs
// matched against slash-normalized paths relative to the root; Ignore names
// starter-code files or directories, absolute or root-relative.
type Scanner struct {
	Root    string
	Ignore  []string
	Include []string
	Exclude []string
}

// Result is everything the engine consumes, plus the warnings the walk
// produced along the way.
type Result struct {
	Projects []types.Project
	Starter  []types.SourceFile
	Warnings []types.Warning
}

// Scan reads the corpus. Per-file failures degrade to Input warnings; an
// unreadable root or a root with no project directories is fatal.
func (s *Scanner) Scan() (*Result, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, errors.NewInputError("resolve", s.Root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.NewInputError("read", root, err)
	}

	ignorePaths, err := s.resolveIgnores(root)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	var projectNames []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if ignorePaths[filepath.Join(root, e.Name())] {
			continue
		}
		projectNames = append(projectNames, e.Name())
	}
	sort.Strings(projectNames)

	if len(projectNames) == 0 {
		return nil, errors.NewInputError("scan", root,
			fmt.Errorf("no project directories under analysis root"))
	}

	for _, name := range projectNames {
		files := s.collectFiles(root, filepath.Join(root, name), ignorePaths, res)
		if len(files) == 0 {
			res.Warnings = append(res.Warnings, types.Warning{
				Message: fmt.Sprintf("project %q has no matching assembly files", name),
				Type:    types.WarnInput,
			})
		}
		res.Projects = append(res.Projects, types.Project{Name: name, Files: files})
	}

	for _, ignore := range s.sortedIgnores(ignorePaths) {
		s.collectStarter(root, ignore, res)
	}

	return res, nil
}

// resolveIgnores maps every --ignore path to its absolute form, rejecting
// paths that do not exist: a typoed starter path silently ignoring nothing
// would un-suppress starter code everywhere.
func (s *Scanner) resolveIgnores(root string) (map[string]bool, error) {
	ignores := make(map[string]bool, len(s.Ignore))
	for _, p := range s.Ignore {
		abs := p
		if !filepath.IsAbs(p) {
			abs = filepath.Join(root, p)
		}
		abs = filepath.Clean(abs)
		if _, err := os.Stat(abs); err != nil {
			return nil, errors.NewInputError("stat", p, err)
		}
		ignores[abs] = true
	}
	return ignores, nil
}

func (s *Scanner) sortedIgnores(ignorePaths map[string]bool) []string {
	out := make([]string, 0, len(ignorePaths))
	for p := range ignorePaths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// collectFiles walks one project directory, applying glob filters, binary
// detection and duplicate-content suppression.
func (s *Scanner) collectFiles(root, dir string, ignorePaths map[string]bool, res *Result) []types.SourceFile {
	var files []types.SourceFile
	seen := make(map[uint64][]types.SourceFile)

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			res.Warnings = append(res.Warnings, types.Warning{
				File:    s.relPath(root, path),
				Message: fmt.Sprintf("unreadable: %v", walkErr),
				Type:    types.WarnInput,
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if underIgnore(path, ignorePaths) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel := s.relPath(root, path)
		if !s.matches(rel) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			res.Warnings = append(res.Warnings, types.Warning{
				File:    rel,
				Message: fmt.Sprintf("unreadable: %v", err),
				Type:    types.WarnInput,
			})
			return nil
		}
		if isBinary(content) {
			res.Warnings = append(res.Warnings, types.Warning{
				File:    rel,
				Message: "binary file skipped",
				Type:    types.WarnInput,
			})
			return nil
		}

		// Duplicate contents within one project (stray copies, editor
		// backups) would self-match every fingerprint; keep the first
		// path only. xxhash narrows candidates, bytes confirm.
		sum := xxhash.Sum64(content)
		for _, prev := range seen[sum] {
			if string(prev.Content) == string(content) {
				res.Warnings = append(res.Warnings, types.Warning{
					File:    rel,
					Message: fmt.Sprintf("contents identical to %s; skipped", prev.Path),
					Type:    types.WarnInput,
				})
				return nil
			}
		}

		sf := types.SourceFile{Path: rel, Content: content}
		seen[sum] = append(seen[sum], sf)
		files = append(files, sf)
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// collectStarter loads one --ignore path (file or directory) into the
// starter corpus. Directories go through the same glob filters as projects;
// explicitly named files load unconditionally.
func (s *Scanner) collectStarter(root, path string, res *Result) {
	info, err := os.Stat(path)
	if err != nil {
		res.Warnings = append(res.Warnings, types.Warning{
			File:    s.relPath(root, path),
			Message: fmt.Sprintf("unreadable starter path: %v", err),
			Type:    types.WarnInput,
		})
		return
	}

	if !info.IsDir() {
		s.loadStarterFile(root, path, res)
		return
	}

	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !s.matches(s.relPath(root, p)) {
			return nil
		}
		s.loadStarterFile(root, p, res)
		return nil
	})
}

func (s *Scanner) loadStarterFile(root, path string, res *Result) {
	content, err := os.ReadFile(path)
	if err != nil {
		res.Warnings = append(res.Warnings, types.Warning{
			File:    s.relPath(root, path),
			Message: fmt.Sprintf("unreadable starter file: %v", err),
			Type:    types.WarnInput,
		})
		return
	}
	if isBinary(content) {
		return
	}
	res.Starter = append(res.Starter, types.SourceFile{
		Path:    s.relPath(root, path),
		Content: content,
	})
}

// relPath renders a path relative to the analysis root with forward
// slashes; starter paths outside the root stay as cleaned absolutes.
func (s *Scanner) relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

// matches applies include then exclude globs to a root-relative path.
func (s *Scanner) matches(rel string) bool {
	included := len(s.Include) == 0
	for _, pattern := range s.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range s.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

func underIgnore(path string, ignorePaths map[string]bool) bool {
	for p := range ignorePaths {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
