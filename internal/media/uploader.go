// Package media relays uploaded files to their storage backend and hands
// back a public URL. Cloudinary is the primary backend; a local-disk
// uploader stands in when no credentials are configured.
package media

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/anasyaks/arewabites/models"
)

// ErrUploadFailed is returned on any transport or provider error. Callers
// that can proceed without media fall back to a default URL instead.
var ErrUploadFailed = errors.New("media: upload failed")

// Uploader stores a file under a destination folder tag and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
}

// TypeFromFilename infers the media type from the file extension.
// It trusts the client-supplied name rather than inspecting content.
func TypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mov":
		return models.MediaTypeVideo
	default:
		return models.MediaTypeImage
	}
}
