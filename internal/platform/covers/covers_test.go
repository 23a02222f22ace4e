package covers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ouvrages/livre-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = config.CoversConfig{MaxWidth: 60, MaxHeight: 90, JPEGQuality: 80}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), testConfig, nil)
	require.NoError(t, err)
	s.nowFunc = func() time.Time { return time.UnixMilli(1712345678901) }
	return s
}

func TestStoreSave(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	publicPath, err := s.Save(context.Background(), bytes.NewReader(pngBytes(t, 300, 300)))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, URLPrefix+"1712345678901-"))
	assert.True(t, strings.HasSuffix(publicPath, ".jpg"))

	stored, err := imaging.Open(filepath.Join(s.Dir(), strings.TrimPrefix(publicPath, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, 60, stored.Bounds().Dx())
	assert.Equal(t, 60, stored.Bounds().Dy())

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestStoreSaveKeepsSmallImages(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	publicPath, err := s.Save(context.Background(), bytes.NewReader(pngBytes(t, 20, 30)))

	require.NoError(t, err)
	stored, err := imaging.Open(filepath.Join(s.Dir(), strings.TrimPrefix(publicPath, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 30), stored.Bounds().Size())
}

func TestStoreSaveRejectsNonImages(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Save(context.Background(), strings.NewReader("%PDF-1.4 not an image"))

	assert.ErrorIs(t, err, ErrInvalidImage)
	entries, _ := os.ReadDir(s.Dir())
	assert.Empty(t, entries)
}

func TestStoreRemove(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	publicPath, err := s.Save(ctx, bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, publicPath))
	_, err = os.Stat(filepath.Join(s.Dir(), strings.TrimPrefix(publicPath, URLPrefix)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ctx, publicPath), "already removed")
	assert.NoError(t, s.Remove(ctx, "/etc/passwd"))
	assert.NoError(t, s.Remove(ctx, URLPrefix+"../../secret.jpg"))
}
