package todo_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myday/internal/todo"
)

func Test_NewAttachment_Encodes_Data_URI(t *testing.T) {
	t.Parallel()

	f, err := todo.NewAttachment("notes.txt", "", []byte("abc"))
	require.NoError(t, err)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, int64(3), f.Size)
	assert.True(t, strings.HasPrefix(f.Type, "text/plain"), "type %q", f.Type)
	assert.Equal(t, "data:"+f.Type+";base64,YWJj", f.URL)
}

func Test_NewAttachment_Sniffs_Unknown_Extensions(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n0000")
	f, err := todo.NewAttachment("image.unknownext", "", png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.Type)

	f, err = todo.NewAttachment("blob", "application/x-custom", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "application/x-custom", f.Type)
}

func Test_NewAttachment_Rejects_Oversized(t *testing.T) {
	t.Parallel()

	_, err := todo.NewAttachment("big.bin", "", make([]byte, todo.MaxFileSize+1))
	require.ErrorIs(t, err, todo.ErrFileTooLarge)
}

func Test_ReadAttachments_Loads_Valid_Files_And_Reports_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
		paths = append(paths, p)
	}
	big := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(big, make([]byte, todo.MaxFileSize+1), 0o600))
	paths = append(paths, big, filepath.Join(dir, "missing.txt"))

	var names []string
	err := todo.ReadAttachments(context.Background(), paths, func(f todo.AttachedFile) {
		names = append(names, f.Name)
	})

	require.Error(t, err)
	require.ErrorIs(t, err, todo.ErrFileTooLarge)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt", "c.txt"}, names)
}

func Test_ReadAttachments_Stops_On_Cancelled_Context(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("a"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := todo.ReadAttachments(ctx, []string{p}, func(todo.AttachedFile) { called = true })
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
