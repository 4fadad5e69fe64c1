package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anasyaks/arewabites/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTypeFromFilename(t *testing.T) {
	assert.Equal(t, models.MediaTypeImage, TypeFromFilename("kilishi.jpg"))
	assert.Equal(t, models.MediaTypeImage, TypeFromFilename("kilishi.PNG"))
	assert.Equal(t, models.MediaTypeImage, TypeFromFilename("no-extension"))
	assert.Equal(t, models.MediaTypeVideo, TypeFromFilename("tour.mp4"))
	assert.Equal(t, models.MediaTypeVideo, TypeFromFilename("tour.MOV"))
}

func TestLocalPath(t *testing.T) {
	p, ok := LocalPath("/srv/media", "/uploads/snack_media/a.jpg")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/media", "snack_media", "a.jpg"), p)

	_, ok = LocalPath("/srv/media", "https://res.cloudinary.com/demo/a.jpg")
	assert.False(t, ok, "remote URLs have no local file")

	_, ok = LocalPath("/srv/media", "")
	assert.False(t, ok)
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("media", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	files := form.File["media"]
	require.Len(t, files, 1)
	return files[0]
}

func TestLocalUploaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, zap.NewNop())

	url, err := u.Upload(context.Background(), fileHeader(t, "Kilishi Photo.JPG", []byte("jpeg-bytes")), "snack_media")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, URLPrefix+"/snack_media/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"), "extension is lowercased")

	onDisk, ok := LocalPath(dir, url)
	require.True(t, ok, "locally stored uploads must map back to disk")
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestLocalUploaderUniqueNames(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, zap.NewNop())

	first, err := u.Upload(context.Background(), fileHeader(t, "logo.png", []byte("one")), "logos")
	require.NoError(t, err)
	second, err := u.Upload(context.Background(), fileHeader(t, "logo.png", []byte("two")), "logos")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "identical filenames must not collide")
}
