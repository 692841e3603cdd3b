// Package depcache covers tool-wide caches that live at one well-known
// location per machine rather than inside project trees.
package depcache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/scan"
)

// Cleaner reports a single fixed-location cache directory. A missing
// directory yields an empty scan, not an error: the tool simply isn't
// installed here.
type Cleaner struct {
	kind    string
	icon    string
	label   string
	resolve func() (string, bool)
}

// Name implements cleaner.Cleaner.
func (c *Cleaner) Name() string { return c.kind }

// Icon implements cleaner.Cleaner.
func (c *Cleaner) Icon() string { return c.icon }

// Scan sizes the cache directory if it exists.
func (c *Cleaner) Scan() (*cleaner.ScanResult, error) {
	dir, ok := c.resolve()
	if !ok {
		return &cleaner.ScanResult{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return &cleaner.ScanResult{}, nil
		}
		return nil, err
	}

	size, warnings, err := scan.DirSize(dir)
	if err != nil {
		return nil, err
	}
	return &cleaner.ScanResult{
		Items: []cleaner.Item{{
			Name:      c.label,
			Path:      dir,
			Size:      size,
			SizeKnown: true,
			Kind:      c.kind,
		}},
		Warnings: warnings,
	}, nil
}

// Remove deletes the cache directory.
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

// GoModCache returns the cleaner for the Go module download cache,
// honoring GOMODCACHE, then GOPATH, then the default under the home dir.
func GoModCache() *Cleaner {
	return &Cleaner{
		kind:  "Go",
		icon:  "🐹",
		label: "Go module cache",
		resolve: func() (string, bool) {
			if dir := os.Getenv("GOMODCACHE"); dir != "" {
				return dir, true
			}
			if gopath := os.Getenv("GOPATH"); gopath != "" {
				return filepath.Join(gopath, "pkg", "mod"), true
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return "", false
			}
			return filepath.Join(home, "go", "pkg", "mod"), true
		},
	}
}

// GradleCache returns the cleaner for the Gradle user home, honoring
// GRADLE_USER_HOME.
func GradleCache() *Cleaner {
	return &Cleaner{
		kind:  "Gradle",
		icon:  "🐘",
		label: "Gradle cache",
		resolve: func() (string, bool) {
			if dir := os.Getenv("GRADLE_USER_HOME"); dir != "" {
				return dir, true
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return "", false
			}
			return filepath.Join(home, ".gradle"), true
		},
	}
}

// XcodeDerivedData returns the cleaner for Xcode's DerivedData directory.
func XcodeDerivedData() *Cleaner {
	return &Cleaner{
		kind:  "Xcode",
		icon:  "🔨",
		label: "Xcode DerivedData",
		resolve: func() (string, bool) {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", false
			}
			return filepath.Join(home, "Library", "Developer", "Xcode", "DerivedData"), true
		},
	}
}
