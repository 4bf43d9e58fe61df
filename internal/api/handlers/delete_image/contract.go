package delete_image

import "context"

type GalleryService interface {
	Delete(ctx context.Context, id, actorID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
