package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileCreatesDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	require.NoError(t, SafeWriteFile(p, []byte("hi")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := UniquePath(dir, "metrics", ".summary.md")
	assert.Equal(t, filepath.Join(dir, "metrics.summary.md"), first)
	require.NoError(t, os.WriteFile(first, nil, 0o644))

	second := UniquePath(dir, "metrics", ".summary.md")
	assert.Equal(t, filepath.Join(dir, "metrics__2.summary.md"), second)
	require.NoError(t, os.WriteFile(second, nil, 0o644))

	assert.Equal(t, filepath.Join(dir, "metrics__3.summary.md"), UniquePath(dir, "metrics", ".summary.md"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "q1-sales", Slug("  Q1 Sales "))
	assert.Equal(t, "a-b", Slug("a_-b"))
	assert.Equal(t, "", Slug("***"))
}
