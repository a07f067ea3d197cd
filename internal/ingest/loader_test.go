package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirTextFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("a.txt", "Refunds are processed within 14 days.")
	write("b.md", "# Shipping\n\nShipping takes up to 5 business days.")
	write("c.json", `{"ignored": true}`)
	write("empty.txt", "   \n")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Contains(t, docs[0].PageContent, "14 days")
	assert.Equal(t, filepath.Join(dir, "a.txt"), docs[0].Metadata["source"])
	assert.Contains(t, docs[1].PageContent, "Shipping")
	assert.Equal(t, filepath.Join(dir, "b.md"), docs[1].Metadata["source"])
}

func TestLoadDirSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "x.txt"), []byte("hidden"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("visible"), 0o644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "visible", docs[0].PageContent)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
