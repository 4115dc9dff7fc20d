package themeatlas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOMLPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "prefs.toml")
	p, err := OpenTOMLPreferences(path)
	require.NoError(t, err)
	assert.True(t, BlendThemes(p))
	assert.Equal(t, ThemeLight, ThemeChoice(p, ThemeLight))

	require.NoError(t, SetBlendThemes(p, false))
	require.NoError(t, SetThemeChoice(p, ThemeDark))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"/GUI/Theme" = "dark"`)

	again, err := OpenTOMLPreferences(path)
	require.NoError(t, err)
	assert.False(t, BlendThemes(again))
	assert.Equal(t, ThemeDark, ThemeChoice(again, ThemeLight))
}

func TestTOMLPreferences_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [toml"), 0o644))
	_, err := OpenTOMLPreferences(path)
	assert.Error(t, err)
}

func TestBlendThemes_BadValue(t *testing.T) {
	p := &MemoryPreferences{}
	require.NoError(t, p.Write(BlendThemesKey, "maybe"))
	assert.True(t, BlendThemes(p))
}
