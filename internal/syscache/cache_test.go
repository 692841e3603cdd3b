package syscache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/syscache"
)

func mkEntry(t *testing.T, root, name string, size int) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob"), make([]byte, size), 0o644))
}

func TestScanAppliesThresholdAndSorts(t *testing.T) {
	root := t.TempDir()
	mkEntry(t, root, "Homebrew", 4000)
	mkEntry(t, root, "pip", 9000)
	mkEntry(t, root, "tiny", 100)

	c := syscache.NewWithRoot(root, 1000, nil)
	res, err := c.Scan()
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "pip", res.Items[0].Name)
	assert.Equal(t, "Homebrew", res.Items[1].Name)
	assert.Equal(t, int64(13000), res.TotalBytes())
}

func TestScanTiesBrokenByName(t *testing.T) {
	root := t.TempDir()
	mkEntry(t, root, "bbb", 2000)
	mkEntry(t, root, "aaa", 2000)

	c := syscache.NewWithRoot(root, 1000, nil)
	res, err := c.Scan()
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "aaa", res.Items[0].Name)
	assert.Equal(t, "bbb", res.Items[1].Name)
}

func TestScanMissingRootIsEmpty(t *testing.T) {
	c := syscache.NewWithRoot(filepath.Join(t.TempDir(), "gone"), 1000, nil)
	res, err := c.Scan()
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestScanIgnoresPlainFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.log"), make([]byte, 5000), 0o644))

	c := syscache.NewWithRoot(root, 1000, nil)
	res, err := c.Scan()
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestClassifyExactMatchOnly(t *testing.T) {
	c := syscache.NewWithRoot(t.TempDir(), 0, nil)

	tier, ok := c.Safety(cleaner.Item{Path: "/caches/Homebrew"})
	assert.True(t, ok)
	assert.Equal(t, cleaner.Safe, tier)

	tier, _ = c.Safety(cleaner.Item{Path: "/caches/com.apple.bird"})
	assert.Equal(t, cleaner.NeedsReview, tier)

	// A substring of a known-safe name is not a match.
	tier, _ = c.Safety(cleaner.Item{Path: "/caches/Homebrew-old"})
	assert.Equal(t, cleaner.Unknown, tier)

	tier, _ = c.Safety(cleaner.Item{Path: "/caches/never-heard-of-it"})
	assert.Equal(t, cleaner.Unknown, tier)
}

func TestOverridesShadowBuiltins(t *testing.T) {
	c := syscache.NewWithRoot(t.TempDir(), 0, map[string]cleaner.SafetyTier{
		"Homebrew": cleaner.NeedsReview,
		"my-tool":  cleaner.Safe,
	})

	tier, _ := c.Safety(cleaner.Item{Path: "/caches/Homebrew"})
	assert.Equal(t, cleaner.NeedsReview, tier)

	tier, _ = c.Safety(cleaner.Item{Path: "/caches/my-tool"})
	assert.Equal(t, cleaner.Safe, tier)
}

func TestScanAttachesTier(t *testing.T) {
	root := t.TempDir()
	mkEntry(t, root, "pip", 5000)
	mkEntry(t, root, "mystery-app", 5000)

	c := syscache.NewWithRoot(root, 1000, nil)
	res, err := c.Scan()
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	byName := map[string]cleaner.Item{}
	for _, it := range res.Items {
		byName[it.Name] = it
	}
	require.NotNil(t, byName["pip"].Safety)
	assert.Equal(t, cleaner.Safe, *byName["pip"].Safety)
	require.NotNil(t, byName["mystery-app"].Safety)
	assert.Equal(t, cleaner.Unknown, *byName["mystery-app"].Safety)
}

func TestRemoveDeletesEntry(t *testing.T) {
	root := t.TempDir()
	mkEntry(t, root, "pip", 5000)

	c := syscache.NewWithRoot(root, 1000, nil)
	res, err := c.Scan()
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	require.NoError(t, c.Remove(res.Items[0]))
	_, err = os.Stat(res.Items[0].Path)
	assert.True(t, os.IsNotExist(err))
}
