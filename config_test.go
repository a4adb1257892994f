package octree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseConfig(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`
capacity: 4
max_depth: 10
bounds:
  min: [-1, -2, -3]
  max: [1, 2, 3]
`))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Capacity)
		assert.Equal(t, 10, cfg.MaxDepth)

		box, err := cfg.Bounds.Box()
		require.NoError(t, err)
		assert.Equal(t, mustBox(t, -1.0, -2, -3, 1, 2, 3), box)
	})

	t.Run("defaults fill gaps", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("capacity: 2\n"))
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Capacity)
		assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseConfig([]byte("capacty: 2\n"))
		assert.Error(t, err)
	})

	t.Run("collects every problem", func(t *testing.T) {
		_, err := ParseConfig([]byte(`
capacity: -1
max_depth: 0
bounds:
  min: [1, 1, 1]
  max: [0, 0, 0]
`))
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 3)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, ErrInvalidBounds)
	})

	t.Run("short bounds", func(t *testing.T) {
		_, err := ParseConfig([]byte(`
bounds:
  min: [0, 0]
  max: [1, 1, 1]
`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
capacity: 3
bounds:
  min: [0, 0, 0]
  max: [100, 100, 100]
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	tree, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Capacity())
	assert.Equal(t, DefaultMaxDepth, tree.MaxDepth())
	assert.Equal(t, mustBox(t, 0.0, 0, 0, 100, 100, 100), tree.Bounds())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewFromConfigNeedsBounds(t *testing.T) {
	tree, err := NewFromConfig(DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, tree)
}
