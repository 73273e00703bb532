package localstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/damedesign/portfolio/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, "", 0)
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, ports.PutObjectInput{
		Key:         "projects/cover.png",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("png!"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/projects/cover.png", url)

	b, err := os.ReadFile(filepath.Join(dir, "projects", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png!", string(b))

	require.NoError(t, store.Delete(ctx, "projects/cover.png"))
	_, err = os.Stat(filepath.Join(dir, "projects", "cover.png"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Delete(ctx, "projects/cover.png"), "deleting twice is fine")
}

func TestStore_RejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir(), "/media", 0)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), ports.PutObjectInput{Key: "../etc/passwd", Body: strings.NewReader("x")})
	require.Error(t, err)
	require.Error(t, store.Delete(context.Background(), ""))
}

func TestStore_SizeLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, "/media", 3)
	require.NoError(t, err)

	_, err = store.Put(context.Background(), ports.PutObjectInput{Key: "a.txt", Size: 10, Body: strings.NewReader("0123456789")})
	require.ErrorIs(t, err, ports.ErrObjectTooLarge)

	// Declared size lies; the stream is still capped.
	_, err = store.Put(context.Background(), ports.PutObjectInput{Key: "b.txt", Size: 1, Body: strings.NewReader("0123456789")})
	require.ErrorIs(t, err, ports.ErrObjectTooLarge)
	_, statErr := os.Stat(filepath.Join(dir, "b.txt"))
	assert.True(t, os.IsNotExist(statErr))

	url, err := store.Put(context.Background(), ports.PutObjectInput{Key: "c.txt", Size: 3, Body: strings.NewReader("abc")})
	require.NoError(t, err)
	assert.Equal(t, "/media/c.txt", url)
}
