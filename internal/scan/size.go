// Package scan provides the shared directory sizing used by all
// filesystem-based cleaners.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// maxWarnings caps the warning list so a huge unreadable tree can't
// balloon memory.
const maxWarnings = 500

// defaultConcurrency bounds parallel directory reads.
const defaultConcurrency = 8

// Sizer computes recursive directory sizes with bounded concurrency.
// A zero-value Sizer is not usable; call NewSizer. Independent Sizers
// share no state, so sizing independent roots concurrently is safe.
type Sizer struct {
	sem      chan struct{}
	mu       sync.Mutex
	warnings []string
	total    atomic.Int64
}

// NewSizer creates a sizer with the given concurrency bound.
// maxConcurrency <= 0 selects the default.
func NewSizer(maxConcurrency int) *Sizer {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultConcurrency
	}
	return &Sizer{sem: make(chan struct{}, maxConcurrency)}
}

// Size returns the recursive byte size of root together with any
// warnings for entries that could not be measured. Symbolic links are
// never followed, so cycles and double counting cannot occur. Permission
// errors on individual entries become warnings and are excluded from the
// total; only a missing or unreadable root is an error.
//
// A Sizer is single-use: the accumulated total belongs to one root.
func (s *Sizer) Size(root string) (int64, []string, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return 0, nil, err
	}
	if !info.IsDir() {
		if info.Mode()&os.ModeSymlink != 0 {
			return 0, nil, nil
		}
		return info.Size(), nil, nil
	}

	// The root's own ReadDir failure is fatal; only deeper entries
	// degrade to warnings.
	s.sem <- struct{}{}
	entries, err := os.ReadDir(root)
	<-s.sem
	if err != nil {
		return 0, nil, err
	}

	s.sizeEntries(root, entries)
	return s.total.Load(), s.warnings, nil
}

// sizeDir sums one subdirectory, downgrading its ReadDir failure to a
// warning. The semaphore is held only during the ReadDir I/O so nested
// acquisition cannot deadlock.
func (s *Sizer) sizeDir(dir string) {
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		s.warn("cannot read " + dir + ": " + err.Error())
		return
	}
	s.sizeEntries(dir, entries)
}

func (s *Sizer) sizeEntries(dir string, entries []os.DirEntry) {
	var wg sync.WaitGroup
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		// ReadDir uses Lstat, so symlinks show up as themselves and are
		// neither followed nor counted.
		if e.Type()&os.ModeSymlink != 0 {
			continue
		}

		if e.IsDir() {
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				s.sizeDir(p)
			}(path)
			continue
		}

		info, err := e.Info()
		if err != nil {
			s.warn("cannot stat " + path + ": " + err.Error())
			continue
		}
		if info.Mode().IsRegular() {
			s.total.Add(info.Size())
		}
	}
	wg.Wait()
}

func (s *Sizer) warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < maxWarnings {
		s.warnings = append(s.warnings, msg)
	}
}

// DirSize is the one-shot form of Sizer.Size with default concurrency.
func DirSize(root string) (int64, []string, error) {
	return NewSizer(0).Size(root)
}

// FormatSize renders a byte count in a fixed two-decimal form:
// "0 B", "512.00 B", "1.00 KB", "2.50 GB".
func FormatSize(bytes int64) string {
	const unit = 1024
	units := []string{"B", "KB", "MB", "GB", "TB"}

	if bytes == 0 {
		return "0 B"
	}

	size := float64(bytes)
	idx := 0
	for size >= unit && idx < len(units)-1 {
		size /= unit
		idx++
	}
	return fmt.Sprintf("%.2f %s", size, units[idx])
}
