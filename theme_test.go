package panelkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme(t *testing.T) {
	t.Run("OverridesKeepBase", func(t *testing.T) {
		yml := []byte(`
accent:
  fg: bright-yellow
  bold: true
selection:
  fg: black
  bg: "#3366cc"
`)
		th, err := ParseTheme(yml, ThemeDark)
		require.NoError(t, err)

		assert.Equal(t, BrightYellow, th.Accent.FG)
		assert.True(t, th.Accent.Attr.Has(AttrBold))
		assert.Equal(t, Hex(0x3366cc), th.Selection.BG)
		// untouched entries keep the base theme
		assert.True(t, th.Base.Equal(ThemeDark.Base))
		assert.True(t, th.Muted.Equal(ThemeDark.Muted))
	})

	t.Run("PaletteIndex", func(t *testing.T) {
		th, err := ParseTheme([]byte("muted:\n  fg: 242\n"), ThemeDark)
		require.NoError(t, err)
		assert.Equal(t, PaletteColor(242), th.Muted.FG)
	})

	t.Run("BadColor", func(t *testing.T) {
		_, err := ParseTheme([]byte("base:\n  fg: chartreuse-ish\n"), ThemeDark)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown color")
	})

	t.Run("BadHex", func(t *testing.T) {
		_, err := ParseTheme([]byte("base:\n  fg: \"#12345\"\n"), ThemeDark)
		require.Error(t, err)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := ParseTheme([]byte("accent: [not a mapping"), ThemeDark)
		require.Error(t, err)
	})
}

func TestLoadTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("error:\n  fg: red\n  underline: true\n"), 0o644))

	th, err := LoadTheme(path, ThemeLight)
	require.NoError(t, err)
	assert.Equal(t, Red, th.Error.FG)
	assert.True(t, th.Error.Attr.Has(AttrUnderline))

	_, err = LoadTheme(filepath.Join(dir, "missing.yaml"), ThemeLight)
	require.Error(t, err)
}

func TestThemeLookup(t *testing.T) {
	th := ThemeDark
	assert.True(t, th.Lookup("accent").Equal(th.Accent))
	assert.True(t, th.Lookup("").Equal(th.Base))
	// unknown names fall back to base
	assert.True(t, th.Lookup("nonsense").Equal(th.Base))
}
