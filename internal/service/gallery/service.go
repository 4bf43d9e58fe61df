package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/files"
	galleryRepo "github.com/m04kA/SMC-NailSalon/internal/infra/storage/gallery"
	"github.com/m04kA/SMC-NailSalon/pkg/sanitize"
)

const (
	entityImage = "gallery_image"

	// sniffLen столько байт нужно http.DetectContentType
	sniffLen = 512
)

// allowedTypes допустимые типы и расширения файлов
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Service сервис галереи работ
type Service struct {
	repo      ImageRepository
	files     FileStore
	maxBytes  int64
	urlPrefix string
	audit     AuditRecorder
	logger    Logger
}

// NewService создает новый экземпляр сервиса
// urlPrefix - путь, под которым раздаются файлы ("/uploads/")
func NewService(repo ImageRepository, fileStore FileStore, maxBytes int64, urlPrefix string, audit AuditRecorder, logger Logger) *Service {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Service{
		repo:      repo,
		files:     fileStore,
		maxBytes:  maxBytes,
		urlPrefix: urlPrefix,
		audit:     audit,
		logger:    logger,
	}
}

// Upload сохраняет изображение под случайным именем и регистрирует его в галерее
// Тип определяется по содержимому, а не по заголовкам запроса
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*ImageResponse, error) {
	// 1. Подпись и привязка к услуге
	caption := sanitize.TextPtr(req.Caption)
	if caption != nil && sanitize.Length(*caption) > domain.MaxCaptionLength {
		return nil, fmt.Errorf("%w: caption must be at most %d characters", ErrInvalidInput, domain.MaxCaptionLength)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: invalid serviceId", ErrInvalidInput)
	}

	// 2. Определяем тип по первым байтам
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read upload: %v", ErrInvalidInput, err)
	}
	head = head[:n]
	if n == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	contentType := http.DetectContentType(head)
	ext, ok := allowedTypes[contentType]
	if !ok {
		s.logger.Warn("Upload: rejected content type %s", contentType)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	// 3. Пишем файл
	name := uuid.NewString() + ext
	size, err := s.files.Save(name, io.MultiReader(bytes.NewReader(head), req.Content), s.maxBytes)
	if err != nil {
		if errors.Is(err, files.ErrTooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
		}
		s.logger.Error("Upload: failed to save file: %v", err)
		return nil, fmt.Errorf("%w: Upload - save file: %v", ErrInternal, err)
	}

	// 4. Метаданные; при ошибке файл удаляется
	img, err := s.repo.Create(ctx, &domain.GalleryImage{
		FileName:    name,
		ContentType: contentType,
		SizeBytes:   size,
		Caption:     caption,
		ServiceID:   req.ServiceID,
		UploadedBy:  req.ActorID,
	})
	if err != nil {
		if rmErr := s.files.Remove(name); rmErr != nil {
			s.logger.Warn("Upload: failed to remove orphan file %s: %v", name, rmErr)
		}
		s.logger.Error("Upload: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upload - repository error: %v", ErrInternal, err)
	}

	resp := s.fromDomain(img)
	s.audit.Record(ctx, req.ActorID, domain.AuditCreate, entityImage, &img.ID, resp)
	s.logger.Info("Upload: stored image id=%d as %s (%d bytes)", img.ID, name, size)
	return &resp, nil
}

// List изображения, новые первыми, опционально по услуге
func (s *Service) List(ctx context.Context, serviceID *int64) (*ListResponse, error) {
	images, err := s.repo.List(ctx, serviceID)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{Images: make([]ImageResponse, 0, len(images))}
	for _, img := range images {
		resp.Images = append(resp.Images, s.fromDomain(img))
	}
	return resp, nil
}

// Delete удаляет изображение и его файл
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError("Delete", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	if err := s.files.Remove(img.FileName); err != nil {
		s.logger.Warn("Delete: failed to remove file %s of image id=%d: %v", img.FileName, id, err)
	}

	s.audit.Record(ctx, actorID, domain.AuditDelete, entityImage, &id, map[string]string{"file": img.FileName})
	return nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, galleryRepo.ErrImageNotFound) {
		return ErrImageNotFound
	}
	s.logger.Error("%s: repository error for image id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
