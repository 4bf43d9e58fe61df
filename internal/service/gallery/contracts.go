package gallery

import (
	"context"
	"io"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// ImageRepository интерфейс репозитория галереи
type ImageRepository interface {
	Create(ctx context.Context, img *domain.GalleryImage) (*domain.GalleryImage, error)
	GetByID(ctx context.Context, id int64) (*domain.GalleryImage, error)
	List(ctx context.Context, serviceID *int64) ([]*domain.GalleryImage, error)
	Delete(ctx context.Context, id int64) error
}

// FileStore хранилище файлов изображений (реализуется files.Store)
type FileStore interface {
	Save(name string, r io.Reader, maxBytes int64) (int64, error)
	Remove(name string) error
}

// AuditRecorder журнал действий администраторов
type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action, entity string, entityID *int64, details interface{})
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
