package media

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryUploader forwards files to Cloudinary and returns the secure
// delivery URL.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
	log *zap.Logger
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string, log *zap.Logger) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, log: log}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	f, err := file.Open()
	if err != nil {
		u.log.Error("could not open uploaded file", zap.String("filename", file.Filename), zap.Error(err))
		return "", ErrUploadFailed
	}
	defer f.Close()

	resp, err := u.cld.Upload.Upload(ctx, f, uploader.UploadParams{Folder: folder})
	if err != nil {
		u.log.Error("cloudinary upload failed", zap.String("folder", folder), zap.Error(err))
		return "", ErrUploadFailed
	}
	if resp.Error.Message != "" {
		u.log.Error("cloudinary upload rejected", zap.String("folder", folder), zap.String("message", resp.Error.Message))
		return "", ErrUploadFailed
	}
	return resp.SecureURL, nil
}
