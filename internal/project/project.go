// Package project finds disposable build output and dependency
// directories inside project trees: convention-named directories whose
// parent carries the project's marker file.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/logging"
	"github.com/yamakage/souji/internal/scan"
)

// skipDirs are never traversed: VCS metadata plus directories that are
// themselves managed by some cleaner. A matched directory is also never
// recursed into, so nested artifacts are not double counted.
var skipDirs = map[string]bool{
	".git":         true,
	".cache":       true,
	"target":       true,
	"node_modules": true,
}

// Rule describes one resource kind: which directory names are
// disposable, and how to recognize the project that owns them.
type Rule struct {
	// Kind is the cleaner's display name, e.g. "Rust".
	Kind string

	// Icon is the display glyph. Cosmetic only.
	Icon string

	// Dirs are the directory names that count as disposable.
	Dirs []string

	// Markers are file names (globs allowed, e.g. "*.cabal") that must
	// exist next to a matched directory for it to count.
	Markers []string

	// Verify optionally inspects a matched directory itself, e.g. to
	// tell a Python venv apart from an unrelated "env" directory.
	Verify func(dir string) bool
}

// Cleaner scans a root for one rule's artifacts.
type Cleaner struct {
	rule Rule
	root string
}

// New builds a project cleaner for rule under root.
func New(rule Rule, root string) (*Cleaner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve search root: %w", err)
	}
	return &Cleaner{rule: rule, root: abs}, nil
}

// Name implements cleaner.Cleaner.
func (c *Cleaner) Name() string { return c.rule.Kind }

// Icon implements cleaner.Cleaner.
func (c *Cleaner) Icon() string { return c.rule.Icon }

// Scan walks the root and reports every matched directory with its
// recursive size. The root must exist; unreadable subdirectories are
// recorded as warnings and skipped.
func (c *Cleaner) Scan() (*cleaner.ScanResult, error) {
	log := logging.New("project")

	info, err := os.Stat(c.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("search root %s is not a directory", c.root)
	}

	// The root must be readable; unreadable directories further down are
	// warnings, not errors.
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, err
	}

	res := &cleaner.ScanResult{}
	c.walkEntries(c.root, entries, res)

	log.Debug().
		Str("kind", c.rule.Kind).
		Str("root", c.root).
		Int("matches", len(res.Items)).
		Msg("project scan finished")
	return res, nil
}

func (c *Cleaner) walk(dir string, res *cleaner.ScanResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		res.Warnings = append(res.Warnings, "cannot read "+dir+": "+err.Error())
		return
	}
	c.walkEntries(dir, entries, res)
}

func (c *Cleaner) walkEntries(dir string, entries []os.DirEntry, res *cleaner.ScanResult) {
	for _, e := range entries {
		if !e.IsDir() || e.Type()&os.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, e.Name())

		if c.matches(dir, path, e.Name()) {
			size, warnings, err := scan.DirSize(path)
			if err != nil {
				res.Warnings = append(res.Warnings, "cannot size "+path+": "+err.Error())
				continue
			}
			res.Warnings = append(res.Warnings, warnings...)
			res.Items = append(res.Items, cleaner.Item{
				Name:      dir,
				Path:      path,
				Size:      size,
				SizeKnown: true,
				Kind:      c.rule.Kind,
			})
			// Never descend into a match.
			continue
		}

		if skipDirs[e.Name()] {
			continue
		}
		c.walk(path, res)
	}
}

// matches reports whether name is one of the rule's disposable
// directories owned by a recognizable project.
func (c *Cleaner) matches(parent, path, name string) bool {
	found := false
	for _, d := range c.rule.Dirs {
		if d == name {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(c.rule.Markers) > 0 && !hasMarker(parent, c.rule.Markers) {
		return false
	}
	if c.rule.Verify != nil && !c.rule.Verify(path) {
		return false
	}
	return true
}

func hasMarker(dir string, markers []string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, m := range markers {
		for _, e := range entries {
			if ok, _ := filepath.Match(m, e.Name()); ok {
				return true
			}
		}
	}
	return false
}

// Remove deletes one matched directory. Symlinked paths are refused so a
// planted link can't redirect the deletion elsewhere.
func (c *Cleaner) Remove(item cleaner.Item) error {
	info, err := os.Lstat(item.Path)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to delete symlink %s", item.Path)
	}
	return os.RemoveAll(item.Path)
}
