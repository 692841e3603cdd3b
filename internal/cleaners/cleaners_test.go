package cleaners_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/cleaners"
)

func TestDefaultRegistersEveryKind(t *testing.T) {
	reg := cleaners.Default()
	assert.Equal(t, []string{
		"cache", "docker", "flutter", "go", "gradle",
		"haskell", "large-files", "node", "python", "rust", "xcode",
	}, reg.Tokens())
}

func TestDefaultFactoriesBuild(t *testing.T) {
	reg := cleaners.Default()
	opts := cleaner.Options{Root: t.TempDir(), MinSize: 1 << 20}

	for _, token := range reg.Tokens() {
		c, err := reg.New(token, opts)
		require.NoError(t, err, token)
		assert.NotEmpty(t, c.Name(), token)
		assert.NotEmpty(t, c.Icon(), token)
	}
}

func TestLargeFilesScopeFlags(t *testing.T) {
	reg := cleaners.Default()

	_, err := reg.New("large-files", cleaner.Options{
		Root: t.TempDir(), MinSize: 1, FilesOnly: true, DirsOnly: true,
	})
	assert.Error(t, err)
}
