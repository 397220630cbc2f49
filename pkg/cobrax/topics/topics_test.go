package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicFS() fstest.MapFS {
	return fstest.MapFS{
		"settings.md":         {Data: []byte("# Settings\n\nEvery key explained")},
		"option-dry-run.txt":  {Data: []byte("Information about dry-run mode")},
		"nested/layering.txt": {Data: []byte("Layers, lowest first")},
		"notes.json":          {Data: []byte("ignored")},
	}
}

func TestScanTopics(t *testing.T) {
	tm := NewWithOptions(topicFS(), Options{})
	require.NoError(t, tm.scanTopics())

	assert.Equal(t, []string{"layering", "option-dry-run", "settings"}, tm.ListTopics())

	topic, exists := tm.GetTopic("settings")
	require.True(t, exists)
	assert.Equal(t, "settings.md", topic.FilePath)
	assert.Equal(t, "# Settings\n\nEvery key explained", topic.Content)

	_, exists = tm.GetTopic("notes")
	assert.False(t, exists)
}

func TestCustomExtensions(t *testing.T) {
	tm := NewWithOptions(topicFS(), Options{Extensions: []string{".json"}})
	require.NoError(t, tm.scanTopics())
	assert.Equal(t, []string{"notes"}, tm.ListTopics())
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := NewWithOptions(topicFS(), Options{})
	require.NoError(t, tm.scanTopics())

	for _, name := range []string{"dry-run", "--dry-run", "-dry-run", "option-dry-run"} {
		topic, exists := tm.GetTopic(name)
		require.True(t, exists, name)
		assert.Equal(t, "option-dry-run", topic.Name)
	}
}

type upperRenderer struct{ formats []string }

func (r *upperRenderer) Render(content, format string) string {
	r.formats = append(r.formats, format)
	return "rendered:" + content
}

func helpRoot(t *testing.T, renderer Renderer) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "composetune", Short: "root help"}
	root.AddCommand(&cobra.Command{Use: "configure", Short: "configure help", Run: func(*cobra.Command, []string) {}})
	require.NoError(t, InitializeWithOptions(root, topicFS(), Options{Renderer: renderer}))

	var out bytes.Buffer
	root.SetOut(&out)
	return root, &out
}

func TestHelpCommand(t *testing.T) {
	t.Run("topic", func(t *testing.T) {
		renderer := &upperRenderer{}
		root, out := helpRoot(t, renderer)
		root.SetArgs([]string{"help", "settings"})
		require.NoError(t, root.Execute())

		assert.Equal(t, "rendered:# Settings\n\nEvery key explained", out.String())
		assert.Equal(t, []string{".md"}, renderer.formats)
	})

	t.Run("topic list", func(t *testing.T) {
		root, out := helpRoot(t, nil)
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "General topics:\n  layering\n  settings\n")
		assert.Contains(t, out.String(), "Option topics:\n  --dry-run\n")
		assert.Contains(t, out.String(), "Use 'composetune help <topic>'")
	})

	t.Run("command falls back to cobra help", func(t *testing.T) {
		root, out := helpRoot(t, nil)
		root.SetArgs([]string{"help", "configure"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "configure help")
	})
}

func TestGlamourRenderer(t *testing.T) {
	r := NewGlamourRenderer(false)
	assert.Equal(t, "notty", r.Style)
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))

	rendered := r.Render("# Title\n\nbody", ".md")
	assert.Contains(t, rendered, "Title")
	assert.Contains(t, rendered, "body")

	assert.Equal(t, "auto", NewGlamourRenderer(true).Style)
}
