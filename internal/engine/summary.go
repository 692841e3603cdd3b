package engine

import "github.com/yamakage/souji/internal/cleaner"

// Failure records one item that could not be removed.
type Failure struct {
	Item cleaner.Item
	Err  error
}

// Summary is the aggregated result of one invocation. It is populated
// monotonically while items are processed and never mutated after Run
// returns. Skipped items contribute to the found totals but not the
// deleted totals.
type Summary struct {
	// Found counts the working set handed to execution.
	Found int
	// BytesFound sums known sizes over the working set, mode-independent.
	BytesFound int64

	// Deleted counts successful removals.
	Deleted int
	// BytesFreed sums known sizes over successful removals.
	BytesFreed int64

	// Skipped counts items declined or abandoned in interactive mode.
	Skipped int

	// Warnings counts subtrees that could not be measured during scan.
	Warnings int

	// Failures lists items whose removal failed.
	Failures []Failure

	// Quit is true when the user stopped an interactive run early.
	Quit bool
}

func newSummary(items []cleaner.Item, warnings []string) *Summary {
	s := &Summary{
		Found:    len(items),
		Warnings: len(warnings),
	}
	for _, it := range items {
		if it.SizeKnown {
			s.BytesFound += it.Size
		}
	}
	return s
}
