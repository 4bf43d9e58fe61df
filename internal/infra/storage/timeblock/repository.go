package timeblock

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
	"github.com/m04kA/SMC-NailSalon/pkg/types"
)

var columns = []string{"id", "block_date", "start_time", "end_time", "professional_id", "reason", "created_by", "created_at"}

// Repository репозиторий блокировок времени
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create создает блокировку
func (r *Repository) Create(ctx context.Context, b *domain.TimeBlock) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	query, args, err := r.sb.Insert("time_blocks").
		Columns("block_date", "start_time", "end_time", "professional_id", "reason", "created_by", "created_at").
		Values(b.Date, b.StartTime, b.EndTime, b.ProfessionalID, b.Reason, b.CreatedBy, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = now
	return b, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTimeBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan time block: %v", ErrScanRow, err)
	}
	return b, nil
}

// GetByDate блокировки на дату
func (r *Repository) GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeBlock, error) {
	return r.GetByDateRange(ctx, date, date)
}

// GetByDateRange блокировки в диапазоне дат включительно
func (r *Repository) GetByDateRange(ctx context.Context, from, to types.Date) ([]*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("time_blocks").
		Where(squirrel.GtOrEq{"block_date": from}).
		Where(squirrel.LtOrEq{"block_date": to}).
		OrderBy("block_date", "start_time", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.TimeBlock, 0)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByDateRange - scan time block: %v", ErrScanRow, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - rows iteration: %v", ErrScanRow, err)
	}
	return blocks, nil
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete("time_blocks").
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
		return ErrTimeBlockNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row scanner) (*domain.TimeBlock, error) {
	var b domain.TimeBlock
	if err := row.Scan(&b.ID, &b.Date, &b.StartTime, &b.EndTime, &b.ProfessionalID, &b.Reason, &b.CreatedBy, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
