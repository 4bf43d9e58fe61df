package upload_image

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/gallery"
)

type GalleryService interface {
	Upload(ctx context.Context, req *gallery.UploadRequest) (*gallery.ImageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
