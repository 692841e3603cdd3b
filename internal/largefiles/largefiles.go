// Package largefiles finds files and directories over a size floor,
// skipping directories other cleaners already manage.
package largefiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/scan"
)

// managedDirs are excluded from the walk: they belong to other cleaners
// and would otherwise be double reported.
var managedDirs = map[string]bool{
	"node_modules":  true,
	"target":        true,
	".git":          true,
	".stack-work":   true,
	"dist":          true,
	"dist-newstyle": true,
	"__pycache__":   true,
}

// Cleaner reports oversized items under a search root. A directory that
// meets the floor is reported whole and not descended into.
type Cleaner struct {
	root         string
	minSize      int64
	extensions   map[string]bool // normalized without the leading dot
	includeFiles bool
	includeDirs  bool
}

// New builds a large-files cleaner. Extensions may be given with or
// without the leading dot; a non-empty filter drops files that have no
// extension at all. At least one of includeFiles/includeDirs must hold.
func New(root string, minSize int64, extensions []string, includeFiles, includeDirs bool) (*Cleaner, error) {
	if !includeFiles && !includeDirs {
		return nil, fmt.Errorf("nothing to scan: both files and directories excluded")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve search root: %w", err)
	}

	var extSet map[string]bool
	if len(extensions) > 0 {
		extSet = make(map[string]bool, len(extensions))
		for _, ext := range extensions {
			extSet[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = true
		}
	}
	return &Cleaner{
		root:         abs,
		minSize:      minSize,
		extensions:   extSet,
		includeFiles: includeFiles,
		includeDirs:  includeDirs,
	}, nil
}

// Name implements cleaner.Cleaner.
func (c *Cleaner) Name() string { return "Large files" }

// Icon implements cleaner.Cleaner.
func (c *Cleaner) Icon() string { return "🗄" }

// Scan walks the root and reports matches sorted size-descending. The
// root itself is never a candidate.
func (c *Cleaner) Scan() (*cleaner.ScanResult, error) {
	info, err := os.Stat(c.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("search root %s is not a directory", c.root)
	}

	// An unreadable root is fatal; unreadable subdirectories degrade to
	// warnings during the walk.
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, err
	}

	res := &cleaner.ScanResult{}
	c.walkEntries(c.root, entries, res)

	sort.SliceStable(res.Items, func(i, j int) bool {
		if res.Items[i].Size != res.Items[j].Size {
			return res.Items[i].Size > res.Items[j].Size
		}
		return res.Items[i].Path < res.Items[j].Path
	})
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
		if e.Type()&os.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, e.Name())

		if e.IsDir() {
			if managedDirs[e.Name()] {
				continue
			}
			if c.includeDirs {
				size, warnings, err := scan.DirSize(path)
				if err != nil {
					res.Warnings = append(res.Warnings, "cannot size "+path+": "+err.Error())
					continue
				}
				res.Warnings = append(res.Warnings, warnings...)
				if size >= c.minSize {
					res.Items = append(res.Items, cleaner.Item{
						Name:      e.Name() + string(os.PathSeparator),
						Path:      path,
						Size:      size,
						SizeKnown: true,
						Kind:      c.Name(),
					})
					// Reported whole; don't list its contents again.
					continue
				}
			}
			c.walk(path, res)
			continue
		}

		if !c.includeFiles || !c.matchExtension(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			res.Warnings = append(res.Warnings, "cannot stat "+path+": "+err.Error())
			continue
		}
		if info.Mode().IsRegular() && info.Size() >= c.minSize {
			res.Items = append(res.Items, cleaner.Item{
				Name:      e.Name(),
				Path:      path,
				Size:      info.Size(),
				SizeKnown: true,
				Kind:      c.Name(),
			})
		}
	}
}

func (c *Cleaner) matchExtension(name string) bool {
	if c.extensions == nil {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	return c.extensions[strings.ToLower(ext)]
}

// Remove deletes one oversized file or directory.
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
