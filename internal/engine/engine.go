// Package engine drives a cleaner through one search / interactive /
// delete invocation and aggregates the result.
package engine

import (
	"errors"
	"fmt"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/logging"
)

// Mode is the policy governing whether and how confirmation gates
// deletion. It is chosen once before execution begins.
type Mode int

const (
	// ModeSearch reports what would be deleted. Nothing is mutated.
	ModeSearch Mode = iota
	// ModeInteractive confirms each item before deleting it.
	ModeInteractive
	// ModeDelete deletes every scanned item without prompting.
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeInteractive:
		return "interactive"
	case ModeDelete:
		return "delete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Decision is one answer from a Confirmer.
type Decision int

const (
	// DecisionYes deletes the item.
	DecisionYes Decision = iota
	// DecisionNo skips the item and continues.
	DecisionNo
	// DecisionQuit skips the item and everything after it.
	DecisionQuit
)

// Confirmer solicits a per-item decision in interactive mode. This is the
// one point where execution blocks on user input.
type Confirmer interface {
	Confirm(item cleaner.Item) (Decision, error)
}

// ErrNoConfirmer is returned when interactive mode runs without a Confirmer.
var ErrNoConfirmer = errors.New("interactive mode requires a confirmer")

// ScanError wraps a fatal scan failure. Nothing was deleted and no
// summary exists when it is returned.
type ScanError struct {
	Cleaner string
	Err     error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan failed for %s: %v", e.Cleaner, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Options tunes a single run.
type Options struct {
	// SafeOnly drops every item whose safety tier is not Safe from the
	// working set before execution. It composes with any mode.
	SafeOnly bool

	// Confirmer answers per-item prompts. Required for ModeInteractive,
	// ignored otherwise.
	Confirmer Confirmer

	// OnScan, when set, observes the working set once scanning and the
	// prefilter are done, before any item is processed. Used by the CLI
	// to list what was found.
	OnScan func(items []cleaner.Item, warnings []string)

	// OnItem, when set, observes each item just before it is processed.
	// Used by the CLI for progress display.
	OnItem func(item cleaner.Item)
}

// Run executes one invocation: scan, optional safe-only prefilter, then
// the mode's policy over the scanned items in scan order. Items the scan
// did not report are never touched. Per-item deletion failures are
// recorded and the run continues; only a scan failure is fatal.
func Run(c cleaner.Cleaner, mode Mode, opts Options) (*Summary, error) {
	log := logging.New("engine")

	if mode == ModeInteractive && opts.Confirmer == nil {
		return nil, ErrNoConfirmer
	}

	res, err := c.Scan()
	if err != nil {
		return nil, &ScanError{Cleaner: c.Name(), Err: err}
	}

	items := res.Items
	if opts.SafeOnly {
		items = filterSafe(c, items)
	}

	summary := newSummary(items, res.Warnings)
	if opts.OnScan != nil {
		opts.OnScan(items, res.Warnings)
	}
	log.Debug().
		Str("cleaner", c.Name()).
		Stringer("mode", mode).
		Int("found", summary.Found).
		Int64("bytes", summary.BytesFound).
		Msg("scan complete")

	switch mode {
	case ModeSearch:
		// Report-only; the summary already holds the found totals.

	case ModeInteractive:
		for i, item := range items {
			if opts.OnItem != nil {
				opts.OnItem(item)
			}
			decision, err := opts.Confirmer.Confirm(item)
			if err != nil {
				return nil, fmt.Errorf("confirmation failed: %w", err)
			}
			switch decision {
			case DecisionYes:
				deleteItem(c, item, summary)
			case DecisionNo:
				summary.Skipped++
			case DecisionQuit:
				summary.Skipped += len(items) - i
				summary.Quit = true
				return summary, nil
			}
		}

	case ModeDelete:
		for _, item := range items {
			if opts.OnItem != nil {
				opts.OnItem(item)
			}
			deleteItem(c, item, summary)
		}
	}

	return summary, nil
}

func deleteItem(c cleaner.Cleaner, item cleaner.Item, summary *Summary) {
	if err := c.Remove(item); err != nil {
		summary.Failures = append(summary.Failures, Failure{Item: item, Err: err})
		return
	}
	summary.Deleted++
	if item.SizeKnown {
		summary.BytesFreed += item.Size
	}
}

// filterSafe keeps only items classified Safe. The cleaner's own
// classifier wins over the tier recorded on the item.
func filterSafe(c cleaner.Cleaner, items []cleaner.Item) []cleaner.Item {
	classifier, _ := c.(cleaner.SafetyClassifier)

	kept := items[:0:0]
	for _, item := range items {
		tier := cleaner.Unknown
		if item.Safety != nil {
			tier = *item.Safety
		}
		if classifier != nil {
			if t, ok := classifier.Safety(item); ok {
				tier = t
			}
		}
		if tier == cleaner.Safe {
			kept = append(kept, item)
		}
	}
	return kept
}
