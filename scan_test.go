// File: themekit/scan_test.go
package themekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScan tests decoding resolved settings into structs
func TestScan(t *testing.T) {
	type ThemeSettings struct {
		Title  string `setting:"site-title"`
		Width  int    `setting:"content-width"`
		Sticky bool   `setting:"sticky-header"`
	}

	s, err := NewSettings(SettingsOptions{Store: NewMemoryStore()})
	require.NoError(t, err)
	require.True(t, s.Add("site-title", Properties{PropDefault: "Untitled", PropSanitize: "string"}, false))
	require.True(t, s.Add("content-width", Properties{PropDefault: int64(960), PropSanitize: "int"}, false))
	require.True(t, s.Add("sticky-header", Properties{PropDefault: false, PropSanitize: "bool"}, false))

	t.Run("DefaultsDecode", func(t *testing.T) {
		var target ThemeSettings
		require.NoError(t, s.Scan(&target))
		assert.Equal(t, "Untitled", target.Title)
		assert.Equal(t, 960, target.Width)
		assert.False(t, target.Sticky)
	})

	t.Run("StoredValuesWin", func(t *testing.T) {
		require.True(t, s.Set("site-title", "My Site"))
		require.True(t, s.Set("content-width", "1200"))
		require.True(t, s.Set("sticky-header", "true"))

		var target ThemeSettings
		require.NoError(t, s.Scan(&target))
		assert.Equal(t, "My Site", target.Title)
		assert.Equal(t, 1200, target.Width)
		assert.True(t, target.Sticky)
	})

	t.Run("NonPointerRejected", func(t *testing.T) {
		var target ThemeSettings
		assert.Error(t, s.Scan(target))
		assert.Error(t, s.Scan(nil))
	})
}
