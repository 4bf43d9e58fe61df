package commission

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

var columns = []string{"id", "appointment_id", "professional_id", "amount", "rate", "status", "paid_at", "created_at"}

// Repository репозиторий комиссий мастеров
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория комиссий
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create начисляет комиссию по выполненной записи
func (r *Repository) Create(ctx context.Context, c *domain.Commission) (*domain.Commission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()
	c.Status = domain.CommissionPending

	query, args, err := r.sb.Insert("commissions").
		Columns("appointment_id", "professional_id", "amount", "rate", "status", "created_at").
		Values(c.AppointmentID, c.ProfessionalID, c.Amount, c.Rate, c.Status, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		if sqlbuilder.IsUniqueViolation(err) {
			return nil, ErrCommissionExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = now
	return c, nil
}

// GetByID получает комиссию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Commission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("commissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanCommission(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan commission: %v", ErrScanRow, err)
	}
	return c, nil
}

// List комиссии по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.CommissionFilter) ([]*domain.Commission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.applyFilter(r.sb.Select(columns...).From("commissions"), filter, true).
		OrderBy("created_at DESC", "id DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	commissions := make([]*domain.Commission, 0)
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan commission: %v", ErrScanRow, err)
		}
		commissions = append(commissions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}
	return commissions, nil
}

// Totals суммы начисленных и выплаченных комиссий по фильтру (статус фильтра игнорируется)
func (r *Repository) Totals(ctx context.Context, filter domain.CommissionFilter) (domain.CommissionTotals, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	var totals domain.CommissionTotals

	selectBuilder := r.applyFilter(
		r.sb.Select("status", "COALESCE(SUM(amount), 0)").From("commissions"),
		filter, false,
	).GroupBy("status")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return totals, fmt.Errorf("%w: Totals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return totals, fmt.Errorf("%w: Totals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status domain.CommissionStatus
			sum    float64
		)
		if err := rows.Scan(&status, &sum); err != nil {
			return totals, fmt.Errorf("%w: Totals - scan sum: %v", ErrScanRow, err)
		}
		switch status {
		case domain.CommissionPending:
			totals.Pending = domain.Round2(sum)
		case domain.CommissionPaid:
			totals.Paid = domain.Round2(sum)
		}
	}
	if err := rows.Err(); err != nil {
		return totals, fmt.Errorf("%w: Totals - rows iteration: %v", ErrScanRow, err)
	}
	return totals, nil
}

// MarkPaid отмечает комиссию выплаченной
func (r *Repository) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("commissions").
		Set("status", domain.CommissionPaid).
		Set("paid_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": domain.CommissionPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyPaid
	}
	return nil
}

// applyFilter период фильтра задается датами начисления включительно
func (r *Repository) applyFilter(b squirrel.SelectBuilder, filter domain.CommissionFilter, withStatus bool) squirrel.SelectBuilder {
	if filter.ProfessionalID != nil {
		b = b.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if withStatus && filter.Status != nil {
		b = b.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		b = b.Where(squirrel.GtOrEq{"created_at": filter.From.Time})
	}
	if filter.To != nil {
		b = b.Where(squirrel.Lt{"created_at": filter.To.AddDays(1).Time})
	}
	return b
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCommission(row scanner) (*domain.Commission, error) {
	var c domain.Commission
	if err := row.Scan(&c.ID, &c.AppointmentID, &c.ProfessionalID, &c.Amount, &c.Rate, &c.Status, &c.PaidAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
