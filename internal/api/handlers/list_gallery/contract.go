package list_gallery

import (
	"context"

	"github.com/m04kA/SMC-NailSalon/internal/service/gallery"
)

type GalleryService interface {
	List(ctx context.Context, serviceID *int64) (*gallery.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
