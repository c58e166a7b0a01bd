package display

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStylesheet(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		css, source, err := resolveStylesheet("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "embedded", source)
		assert.Contains(t, css, ".no-transition")
	})

	t.Run("user override", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "linku.css")
		require.NoError(t, os.WriteFile(path, []byte("window.dark { color: red; }"), 0644))

		css, source, err := resolveStylesheet("linku", dir)
		require.NoError(t, err)
		assert.Equal(t, path, source)
		assert.Equal(t, "window.dark { color: red; }", css)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := resolveStylesheet("sepia", t.TempDir())
		assert.Error(t, err)
	})
}
