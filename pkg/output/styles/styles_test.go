package styles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefaults(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Parse(DefaultContent()))
	})
}

func TestStyleRegistry(t *testing.T) {
	expectedStyles := []string{
		"Heading", "Success", "Error", "Warning", "Muted",
		"Path", "RuleName", "Token", "Count", "DryRunBanner",
		"DiffHeader", "DiffHunk", "DiffAdd", "DiffDel", "Indent",
	}

	for _, styleName := range expectedStyles {
		t.Run(styleName, func(t *testing.T) {
			_, exists := StyleRegistry[styleName]
			assert.True(t, exists, "Style %s should exist in registry", styleName)
		})
	}
}

func TestGetStyle(t *testing.T) {
	assert.True(t, GetStyle("Error").GetBold())
	assert.Equal(t, lipgloss.NewStyle(), GetStyle("NonExistentStyle"))
}

func TestMergeStyles(t *testing.T) {
	merged := MergeStyles("Token", "Count", "NonExistent")
	assert.True(t, merged.GetItalic())
	assert.True(t, merged.GetBold())
	assert.NotPanics(t, func() { _ = MergeStyles().Render("test") })
}

func TestStyleColors(t *testing.T) {
	red, ok := Color("red")
	require.True(t, ok)
	assert.NotEmpty(t, red.Light)
	assert.NotEmpty(t, red.Dark)

	assert.Equal(t, red, GetStyle("DiffDel").GetForeground())

	_, ok = Color("chartreuse")
	assert.False(t, ok)
}

func TestLoadStyles(t *testing.T) {
	restoreDefaults(t)

	path := filepath.Join(t.TempDir(), "styles.yaml")
	custom := "colors:\n  ink:\n    light: \"#000000\"\n    dark: \"#FFFFFF\"\nstyles:\n  Path:\n    bold: true\n    foreground: ink\n    paddingLeft: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))

	require.NoError(t, LoadStyles(path))
	assert.True(t, GetStyle("Path").GetBold())
	assert.False(t, GetStyle("Path").GetUnderline())
	assert.Equal(t, 1, GetStyle("Path").GetPaddingLeft())
	_, exists := StyleRegistry["Error"]
	assert.False(t, exists, "a custom file replaces the whole registry")
}

func TestLoadStylesErrors(t *testing.T) {
	restoreDefaults(t)

	assert.Error(t, LoadStyles(filepath.Join(t.TempDir(), "missing.yaml")))

	assert.Error(t, Parse([]byte("styles: [")))
	_, exists := StyleRegistry["Error"]
	assert.True(t, exists, "a bad file leaves the registry alone")
}
