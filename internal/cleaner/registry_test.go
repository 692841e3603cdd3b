package cleaner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamakage/souji/internal/cleaner"
)

type nopCleaner struct{ name string }

func (n nopCleaner) Name() string                       { return n.name }
func (n nopCleaner) Icon() string                       { return "·" }
func (n nopCleaner) Scan() (*cleaner.ScanResult, error) { return &cleaner.ScanResult{}, nil }
func (n nopCleaner) Remove(cleaner.Item) error          { return nil }

func TestRegistryNewDispatchesByToken(t *testing.T) {
	reg := cleaner.NewRegistry()
	reg.Register("alpha", func(cleaner.Options) (cleaner.Cleaner, error) {
		return nopCleaner{name: "Alpha"}, nil
	})

	c, err := reg.New("alpha", cleaner.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", c.Name())
}

func TestRegistryUnknownToken(t *testing.T) {
	_, err := cleaner.NewRegistry().New("nope", cleaner.Options{})
	assert.ErrorContains(t, err, `unknown cleaner "nope"`)
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := cleaner.NewRegistry()
	f := func(cleaner.Options) (cleaner.Cleaner, error) { return nopCleaner{}, nil }
	reg.Register("dup", f)
	assert.Panics(t, func() { reg.Register("dup", f) })
}

func TestRegistryTokensSorted(t *testing.T) {
	reg := cleaner.NewRegistry()
	f := func(cleaner.Options) (cleaner.Cleaner, error) { return nopCleaner{}, nil }
	reg.Register("zebra", f)
	reg.Register("apple", f)
	reg.Register("mango", f)

	assert.Equal(t, []string{"apple", "mango", "zebra"}, reg.Tokens())
}

func TestScanResultTotalBytes(t *testing.T) {
	res := cleaner.ScanResult{Items: []cleaner.Item{
		{Size: 100, SizeKnown: true},
		{Size: 999, SizeKnown: false},
		{Size: 200, SizeKnown: true},
	}}
	assert.Equal(t, int64(300), res.TotalBytes())
}
