package media

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// URLPrefix is the path under which locally stored media is served.
const URLPrefix = "/uploads"

// LocalUploader stores files under BaseDir and returns a path-style URL.
// Files written here are removed by the expiry sweep together with their
// rows.
type LocalUploader struct {
	BaseDir string
	log     *zap.Logger
}

func NewLocalUploader(baseDir string, log *zap.Logger) *LocalUploader {
	return &LocalUploader{BaseDir: baseDir, log: log}
}

func (u *LocalUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		u.log.Error("could not open uploaded file", zap.String("filename", file.Filename), zap.Error(err))
		return "", ErrUploadFailed
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dir := filepath.Join(u.BaseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		u.log.Error("could not create upload directory", zap.String("dir", dir), zap.Error(err))
		return "", ErrUploadFailed
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		u.log.Error("could not create upload file", zap.Error(err))
		return "", ErrUploadFailed
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		u.log.Error("could not write upload file", zap.Error(err))
		return "", ErrUploadFailed
	}

	return path.Join(URLPrefix, folder, name), nil
}

// LocalPath maps a media URL back to its on-disk path. The second return
// is false for remote (e.g. Cloudinary) URLs, which have no local file.
func LocalPath(baseDir, mediaURL string) (string, bool) {
	if !strings.HasPrefix(mediaURL, URLPrefix+"/") {
		return "", false
	}
	rel := strings.TrimPrefix(mediaURL, URLPrefix+"/")
	return filepath.Join(baseDir, filepath.FromSlash(rel)), true
}
