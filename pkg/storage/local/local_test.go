package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	store, err := New(WithPath(dir))
	require.NoError(t, err)

	path, err := store.Write(context.Background(), "daily_summary.md", []byte("## News\n- item"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily_summary.md"), path)

	data, err := store.Read("daily_summary.md")
	require.NoError(t, err)
	assert.Equal(t, "## News\n- item", string(data))
}

func TestStorage_RejectsUnsafeKeys(t *testing.T) {
	store, err := New(WithPath(t.TempDir()))
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "parent traversal", key: "../escape.md"},
		{name: "nested path", key: "sub/dir.md"},
		{name: "windows separator", key: `sub\dir.md`},
		{name: "disallowed extension", key: "summary.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Write(context.Background(), tt.key, []byte("x"))
			assert.Error(t, err)
		})
	}
}

func TestStorage_AllowedExtensions(t *testing.T) {
	store, err := New(WithPath(t.TempDir()), WithAllowedExtensions(".md", ".txt"))
	require.NoError(t, err)

	_, err = store.Write(context.Background(), "notes.txt", []byte("ok"))
	assert.NoError(t, err)

	_, err = store.Write(context.Background(), "notes.json", []byte("no"))
	assert.Error(t, err)
}

func TestNew_CreatesBaseDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	_, err := New(WithPath(dir))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStorage_WriteCanceledContext(t *testing.T) {
	store, err := New(WithPath(t.TempDir()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Write(ctx, "summary.md", []byte("x"))
	assert.Error(t, err)
}
