// Package syscache scans the user's application-cache root for oversized
// entries and classifies how safe each one is to delete.
package syscache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/logging"
	"github.com/yamakage/souji/internal/scan"
)

// DefaultMinSize is the reporting threshold: entries below it are noise
// not worth surfacing.
const DefaultMinSize = 1 << 30 // 1 GiB

// Cleaner walks the platform cache root (~/Library/Caches on macOS,
// ~/.cache on Linux) one level deep and reports entries at or above the
// minimum size, largest first.
type Cleaner struct {
	root    string
	minSize int64
	table   map[string]cleaner.SafetyTier
}

// New builds a cache cleaner over the platform cache root. Overrides
// extend (and may shadow) the compiled safety table.
func New(minSize int64, overrides map[string]cleaner.SafetyTier) *Cleaner {
	return NewWithRoot(xdg.CacheHome, minSize, overrides)
}

// NewWithRoot is New with an explicit cache root.
func NewWithRoot(root string, minSize int64, overrides map[string]cleaner.SafetyTier) *Cleaner {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	table := make(map[string]cleaner.SafetyTier, len(defaultSafetyTable)+len(overrides))
	for id, tier := range defaultSafetyTable {
		table[id] = tier
	}
	for id, tier := range overrides {
		table[id] = tier
	}
	return &Cleaner{root: root, minSize: minSize, table: table}
}

// Name implements cleaner.Cleaner.
func (c *Cleaner) Name() string { return "Cache" }

// Icon implements cleaner.Cleaner.
func (c *Cleaner) Icon() string { return "💾" }

// Scan reports every top-level cache entry whose recursive size meets
// the threshold, sorted size-descending (ties broken by name so the
// order is deterministic). A missing cache root yields an empty result.
func (c *Cleaner) Scan() (*cleaner.ScanResult, error) {
	log := logging.New("syscache")

	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return &cleaner.ScanResult{}, nil
		}
		return nil, err
	}

	res := &cleaner.ScanResult{}
	for _, e := range entries {
		if !e.IsDir() || e.Type()&os.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(c.root, e.Name())
		size, warnings, err := scan.DirSize(path)
		if err != nil {
			res.Warnings = append(res.Warnings, "cannot size "+path+": "+err.Error())
			continue
		}
		res.Warnings = append(res.Warnings, warnings...)

		if size < c.minSize {
			continue
		}
		tier := c.classify(e.Name())
		res.Items = append(res.Items, cleaner.Item{
			Name:      e.Name(),
			Path:      path,
			Size:      size,
			SizeKnown: true,
			Kind:      c.Name(),
			Safety:    &tier,
		})
	}

	sort.SliceStable(res.Items, func(i, j int) bool {
		if res.Items[i].Size != res.Items[j].Size {
			return res.Items[i].Size > res.Items[j].Size
		}
		return res.Items[i].Name < res.Items[j].Name
	})

	log.Debug().
		Str("root", c.root).
		Int("entries", len(res.Items)).
		Int64("threshold", c.minSize).
		Msg("cache scan finished")
	return res, nil
}

// Safety implements cleaner.SafetyClassifier. The identifier is the
// cache entry's directory name; lookup is exact-match.
func (c *Cleaner) Safety(item cleaner.Item) (cleaner.SafetyTier, bool) {
	return c.classify(filepath.Base(item.Path)), true
}

func (c *Cleaner) classify(identifier string) cleaner.SafetyTier {
	if tier, ok := c.table[identifier]; ok {
		return tier
	}
	return cleaner.Unknown
}

// Remove deletes one cache entry.
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
