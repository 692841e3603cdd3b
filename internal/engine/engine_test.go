package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/engine"
)

// fakeCleaner returns a fixed scan result and records removals.
type fakeCleaner struct {
	items    []cleaner.Item
	warnings []string
	scanErr  error
	failOn   map[string]error

	scans   int
	removed []string
}

func (f *fakeCleaner) Name() string { return "fake" }
func (f *fakeCleaner) Icon() string { return "🧪" }

func (f *fakeCleaner) Scan() (*cleaner.ScanResult, error) {
	f.scans++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return &cleaner.ScanResult{Items: f.items, Warnings: f.warnings}, nil
}

func (f *fakeCleaner) Remove(item cleaner.Item) error {
	if err, ok := f.failOn[item.Path]; ok {
		return err
	}
	f.removed = append(f.removed, item.Path)
	return nil
}

// classifyingCleaner additionally classifies items by a fixed table.
type classifyingCleaner struct {
	fakeCleaner
	tiers map[string]cleaner.SafetyTier
}

func (c *classifyingCleaner) Safety(item cleaner.Item) (cleaner.SafetyTier, bool) {
	t, ok := c.tiers[item.Path]
	return t, ok
}

// scriptedConfirmer replays a fixed decision sequence.
type scriptedConfirmer struct {
	decisions []engine.Decision
	asked     []string
}

func (s *scriptedConfirmer) Confirm(item cleaner.Item) (engine.Decision, error) {
	s.asked = append(s.asked, item.Path)
	if len(s.decisions) == 0 {
		return engine.DecisionNo, nil
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d, nil
}

func items(paths ...string) []cleaner.Item {
	out := make([]cleaner.Item, 0, len(paths))
	for i, p := range paths {
		out = append(out, cleaner.Item{
			Name:      p,
			Path:      p,
			Size:      int64((i + 1) * 100),
			SizeKnown: true,
		})
	}
	return out
}

func TestSearchDoesNotMutate(t *testing.T) {
	fc := &fakeCleaner{items: items("a", "b", "c")}

	summary, err := engine.Run(fc, engine.ModeSearch, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, fc.scans)
	assert.Empty(t, fc.removed)
	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, int64(600), summary.BytesFound)
	assert.Zero(t, summary.Deleted)
	assert.Zero(t, summary.BytesFreed)
}

func TestDeleteRemovesEverythingInScanOrder(t *testing.T) {
	fc := &fakeCleaner{items: items("a", "b", "c")}

	summary, err := engine.Run(fc, engine.ModeDelete, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, fc.removed)
	assert.Equal(t, 3, summary.Deleted)
	assert.Equal(t, int64(600), summary.BytesFreed)
	assert.Empty(t, summary.Failures)
}

func TestDeleteFailureIsIsolated(t *testing.T) {
	boom := errors.New("device busy")
	fc := &fakeCleaner{
		items:  items("a", "b", "c"),
		failOn: map[string]error{"b": boom},
	}

	summary, err := engine.Run(fc, engine.ModeDelete, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, fc.removed)
	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, int64(400), summary.BytesFreed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "b", summary.Failures[0].Item.Path)
	assert.ErrorIs(t, summary.Failures[0].Err, boom)
}

func TestScanFailureIsFatal(t *testing.T) {
	boom := errors.New("backend down")
	fc := &fakeCleaner{scanErr: boom}

	summary, err := engine.Run(fc, engine.ModeDelete, engine.Options{})
	assert.Nil(t, summary)

	var scanErr *engine.ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "fake", scanErr.Cleaner)
	assert.ErrorIs(t, err, boom)
}

func TestInteractiveMixedDecisions(t *testing.T) {
	fc := &fakeCleaner{items: items("a", "b", "c")}
	confirmer := &scriptedConfirmer{decisions: []engine.Decision{
		engine.DecisionYes, engine.DecisionNo, engine.DecisionYes,
	}}

	summary, err := engine.Run(fc, engine.ModeInteractive, engine.Options{Confirmer: confirmer})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, confirmer.asked)
	assert.Equal(t, []string{"a", "c"}, fc.removed)
	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, int64(400), summary.BytesFreed)
	assert.False(t, summary.Quit)
}

func TestInteractiveQuitSkipsTheRest(t *testing.T) {
	fc := &fakeCleaner{items: items("a", "b", "c", "d")}
	confirmer := &scriptedConfirmer{decisions: []engine.Decision{
		engine.DecisionYes, engine.DecisionQuit,
	}}

	summary, err := engine.Run(fc, engine.ModeInteractive, engine.Options{Confirmer: confirmer})
	require.NoError(t, err)

	// The quit answer covers the prompted item and everything after it.
	assert.Equal(t, []string{"a", "b"}, confirmer.asked)
	assert.Equal(t, []string{"a"}, fc.removed)
	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 3, summary.Skipped)
	assert.True(t, summary.Quit)
	assert.Equal(t, 4, summary.Found)
}

func TestInteractiveWithoutConfirmer(t *testing.T) {
	fc := &fakeCleaner{items: items("a")}

	_, err := engine.Run(fc, engine.ModeInteractive, engine.Options{})
	assert.ErrorIs(t, err, engine.ErrNoConfirmer)
	assert.Zero(t, fc.scans)
}

func TestSafeOnlyFiltersByClassifier(t *testing.T) {
	cc := &classifyingCleaner{
		fakeCleaner: fakeCleaner{items: items("safe", "risky", "unclassified")},
		tiers: map[string]cleaner.SafetyTier{
			"safe":  cleaner.Safe,
			"risky": cleaner.NeedsReview,
		},
	}

	summary, err := engine.Run(cc, engine.ModeDelete, engine.Options{SafeOnly: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"safe"}, cc.removed)
	assert.Equal(t, 1, summary.Found)
	assert.Equal(t, 1, summary.Deleted)
}

func TestSafeOnlyClassifierOverridesItemTier(t *testing.T) {
	tier := cleaner.Safe
	it := cleaner.Item{Name: "x", Path: "x", Size: 10, SizeKnown: true, Safety: &tier}
	cc := &classifyingCleaner{
		fakeCleaner: fakeCleaner{items: []cleaner.Item{it}},
		tiers:       map[string]cleaner.SafetyTier{"x": cleaner.NeedsReview},
	}

	summary, err := engine.Run(cc, engine.ModeDelete, engine.Options{SafeOnly: true})
	require.NoError(t, err)
	assert.Zero(t, summary.Found)
	assert.Empty(t, cc.removed)
}

func TestUnknownSizesCountAsFoundNotBytes(t *testing.T) {
	fc := &fakeCleaner{items: []cleaner.Item{
		{Name: "known", Path: "known", Size: 100, SizeKnown: true},
		{Name: "mystery", Path: "mystery", SizeKnown: false},
	}}

	summary, err := engine.Run(fc, engine.ModeDelete, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, int64(100), summary.BytesFound)
	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, int64(100), summary.BytesFreed)
}

func TestCallbacksObserveWorkingSet(t *testing.T) {
	fc := &fakeCleaner{items: items("a", "b"), warnings: []string{"w1"}}

	var scanned []cleaner.Item
	var seen []string
	summary, err := engine.Run(fc, engine.ModeDelete, engine.Options{
		OnScan: func(items []cleaner.Item, warnings []string) {
			scanned = items
			assert.Equal(t, []string{"w1"}, warnings)
		},
		OnItem: func(item cleaner.Item) { seen = append(seen, item.Path) },
	})
	require.NoError(t, err)

	assert.Len(t, scanned, 2)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 1, summary.Warnings)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "search", engine.ModeSearch.String())
	assert.Equal(t, "interactive", engine.ModeInteractive.String())
	assert.Equal(t, "delete", engine.ModeDelete.String())
}
