package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

var columns = []string{"id", "file_name", "content_type", "size_bytes", "caption", "service_id", "uploaded_by", "created_at"}

// Repository репозиторий метаданных галереи (файлы лежат на диске)
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория галереи
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create сохраняет метаданные загруженного изображения
func (r *Repository) Create(ctx context.Context, img *domain.GalleryImage) (*domain.GalleryImage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	query, args, err := r.sb.Insert("gallery_images").
		Columns("file_name", "content_type", "size_bytes", "caption", "service_id", "uploaded_by", "created_at").
		Values(img.FileName, img.ContentType, img.SizeBytes, img.Caption, img.ServiceID, img.UploadedBy, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&img.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	img.CreatedAt = now
	return img, nil
}

// GetByID получает изображение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("gallery_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	img, err := scanImage(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan image: %v", ErrScanRow, err)
	}
	return img, nil
}

// List изображения, новые первыми; serviceID фильтрует по услуге
func (r *Repository) List(ctx context.Context, serviceID *int64) ([]*domain.GalleryImage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select(columns...).
		From("gallery_images").
		OrderBy("created_at DESC", "id DESC")
	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	images := make([]*domain.GalleryImage, 0)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan image: %v", ErrScanRow, err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}
	return images, nil
}

// Delete удаляет метаданные изображения
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete("gallery_images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrImageNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(row scanner) (*domain.GalleryImage, error) {
	var img domain.GalleryImage
	err := row.Scan(&img.ID, &img.FileName, &img.ContentType, &img.SizeBytes, &img.Caption, &img.ServiceID, &img.UploadedBy, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}
