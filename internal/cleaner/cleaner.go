// Package cleaner defines the contract every resource-kind cleaner
// implements and the value types shared by all of them.
package cleaner

// SafetyTier classifies how confidently a cache entry can be deleted.
type SafetyTier string

const (
	// Safe means the entry is known to be regenerable and harmless to delete.
	Safe SafetyTier = "safe"
	// NeedsReview means the entry is recognized but deleting it may lose state.
	NeedsReview SafetyTier = "needs-review"
	// Unknown means the entry is not in the safety table.
	Unknown SafetyTier = "unknown"
)

// Item is one discovered deletable unit. Items are produced by Scan,
// read-only afterwards, and consumed exactly once by the execution engine.
type Item struct {
	// Name is a human-readable label (project root, cache entry, image tag).
	Name string

	// Path is an absolute filesystem path, or an opaque "class/id"
	// identifier for container-engine resources.
	Path string

	// Size is the recursive byte size computed at scan time. Only
	// meaningful when SizeKnown is true.
	Size int64

	// SizeKnown is false when the backing engine did not report a size.
	// An unknown size is never silently treated as zero in display.
	SizeKnown bool

	// Kind is the producing cleaner's Name, for display grouping.
	Kind string

	// Safety is nil for cleaners where classification is not meaningful
	// (build artifacts are always regenerable).
	Safety *SafetyTier
}

// ScanResult is everything a single scan produced: the candidate set the
// engine may act on, plus non-fatal sizing warnings.
type ScanResult struct {
	Items    []Item
	Warnings []string
}

// TotalBytes sums the sizes of all items with a known size.
func (r *ScanResult) TotalBytes() int64 {
	var total int64
	for _, it := range r.Items {
		if it.SizeKnown {
			total += it.Size
		}
	}
	return total
}

// Cleaner is the capability set implemented by every resource kind.
//
// Scan must not mutate anything and must be deterministic for a fixed
// filesystem or engine state. It fails only when the search root is
// missing or the external engine is unreachable; individual unreadable
// subpaths become warnings, not errors.
//
// Remove deletes one previously scanned item. The engine never passes
// Remove anything Scan did not report.
type Cleaner interface {
	Scan() (*ScanResult, error)
	Name() string
	Icon() string
	Remove(item Item) error
}

// SafetyClassifier is implemented by cleaners that can classify items.
// Cleaners without an opinion simply don't implement it.
type SafetyClassifier interface {
	Safety(item Item) (SafetyTier, bool)
}
