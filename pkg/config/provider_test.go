package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIProvider(t *testing.T) {
	t.Run("Should map known flags to nested paths", func(t *testing.T) {
		data, err := NewCLIProvider(map[string]any{
			"log-level":  "debug",
			"workers":    3,
			"redis-addr": "cache:6379",
			"unknown":    true,
		}).Load()

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"runtime": map[string]any{"log_level": "debug"},
			"cli":     map[string]any{"workers": 3},
			"redis":   map[string]any{"addr": "cache:6379"},
		}, data)
	})

	t.Run("Should return an empty map without flags", func(t *testing.T) {
		data, err := NewCLIProvider(nil).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestSetNested(t *testing.T) {
	t.Run("Should report conflicts with scalar keys", func(t *testing.T) {
		m := map[string]any{"cli": "json"}
		err := setNested(m, "cli.format", "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a map")
	})
}

func TestDefaultProvider(t *testing.T) {
	t.Run("Should expose defaults keyed by koanf tags", func(t *testing.T) {
		data, err := NewDefaultProvider().Load()
		require.NoError(t, err)
		cli, ok := data["cli"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json", cli["format"])
		assert.Equal(t, SourceDefault, NewDefaultProvider().Type())
	})
}

func TestFilterNilValues(t *testing.T) {
	t.Run("Should drop nil leaves and empty maps", func(t *testing.T) {
		out := filterNilValues(map[string]any{
			"a": nil,
			"b": map[string]any{"c": nil},
			"d": 1,
		})
		assert.Equal(t, map[string]any{"d": 1}, out)
	})
}
