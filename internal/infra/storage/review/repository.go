package review

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

var columns = []string{
	"r.id",
	"r.appointment_id",
	"r.client_id",
	"r.service_id",
	"r.rating",
	"r.comment",
	"r.approved",
	"u.name",
	"r.created_at",
}

// Repository репозиторий отзывов
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория отзывов
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create сохраняет отзыв (не одобрен до модерации)
func (r *Repository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()
	rv.Approved = false

	query, args, err := r.sb.Insert("reviews").
		Columns("appointment_id", "client_id", "service_id", "rating", "comment", "approved", "created_at").
		Values(rv.AppointmentID, rv.ClientID, rv.ServiceID, rv.Rating, rv.Comment, rv.Approved, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rv.ID); err != nil {
		if sqlbuilder.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rv.CreatedAt = now
	return rv, nil
}

// GetByID получает отзыв по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.base().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rv, err := scanReview(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan review: %v", ErrScanRow, err)
	}
	return rv, nil
}

// ListApproved одобренные отзывы, опционально по услуге
func (r *Repository) ListApproved(ctx context.Context, serviceID *int64) ([]*domain.Review, error) {
	selectBuilder := r.base().Where(squirrel.Eq{"r.approved": true})
	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.service_id": *serviceID})
	}
	return r.query(ctx, "ListApproved", selectBuilder)
}

// ListAll все отзывы для модерации; pendingOnly оставляет только неодобренные
func (r *Repository) ListAll(ctx context.Context, pendingOnly bool) ([]*domain.Review, error) {
	selectBuilder := r.base()
	if pendingOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.approved": false})
	}
	return r.query(ctx, "ListAll", selectBuilder)
}

// Summary количество и средняя оценка одобренных отзывов
func (r *Repository) Summary(ctx context.Context, serviceID *int64) (domain.ReviewSummary, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	var summary domain.ReviewSummary

	selectBuilder := r.sb.Select("COUNT(*)", "COALESCE(AVG(rating), 0)").
		From("reviews").
		Where(squirrel.Eq{"approved": true})
	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return summary, fmt.Errorf("%w: Summary - build select query: %v", ErrBuildQuery, err)
	}

	var avg float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&summary.Count, &avg); err != nil {
		return summary, fmt.Errorf("%w: Summary - scan summary: %v", ErrScanRow, err)
	}
	summary.AverageRating = domain.Round2(avg)
	return summary, nil
}

// Approve одобряет отзыв
func (r *Repository) Approve(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("reviews").
		Set("approved", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Approve - build update query: %v", ErrBuildQuery, err)
	}

	return r.execByID(ctx, executor, "Approve", query, args)
}

// Delete удаляет отзыв
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete("reviews").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execByID(ctx, executor, "Delete", query, args)
}

func (r *Repository) base() squirrel.SelectBuilder {
	return r.sb.Select(columns...).
		From("reviews r").
		Join("users u ON u.id = r.client_id").
		OrderBy("r.created_at DESC", "r.id DESC")
}

func (r *Repository) execByID(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Review, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan review: %v", ErrScanRow, op, err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	return reviews, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(row scanner) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.AppointmentID, &rv.ClientID, &rv.ServiceID, &rv.Rating, &rv.Comment, &rv.Approved, &rv.ClientName, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}
