package gallery

import (
	"io"
	"time"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
)

// UploadRequest загрузка изображения
type UploadRequest struct {
	ActorID   int64
	Caption   *string
	ServiceID *int64
	Content   io.Reader
}

// ImageResponse изображение в ответе API
type ImageResponse struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Caption     *string   `json:"caption,omitempty"`
	ServiceID   *int64    `json:"serviceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListResponse список изображений
type ListResponse struct {
	Images []ImageResponse `json:"images"`
}

func (s *Service) fromDomain(img *domain.GalleryImage) ImageResponse {
	return ImageResponse{
		ID:          img.ID,
		URL:         s.urlPrefix + img.FileName,
		ContentType: img.ContentType,
		SizeBytes:   img.SizeBytes,
		Caption:     img.Caption,
		ServiceID:   img.ServiceID,
		CreatedAt:   img.CreatedAt,
	}
}
