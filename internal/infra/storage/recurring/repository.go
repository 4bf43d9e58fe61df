package recurring

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

var columns = []string{
	"id",
	"client_id",
	"service_id",
	"professional_id",
	"frequency",
	"start_date",
	"end_date",
	"start_time",
	"active",
	"last_generated_date",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий повторяющихся записей
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория повторяющихся записей
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create создает шаблон
func (r *Repository) Create(ctx context.Context, ra *domain.RecurringAppointment) (*domain.RecurringAppointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()
	ra.Active = true

	query, args, err := r.sb.Insert("recurring_appointments").
		Columns(
			"client_id",
			"service_id",
			"professional_id",
			"frequency",
			"start_date",
			"end_date",
			"start_time",
			"active",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			ra.ClientID,
			ra.ServiceID,
			ra.ProfessionalID,
			ra.Frequency,
			ra.StartDate,
			ra.EndDate,
			ra.StartTime,
			ra.Active,
			ra.Notes,
			now,
			now,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&ra.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	ra.CreatedAt = now
	ra.UpdatedAt = now
	return ra, nil
}

// GetByID получает шаблон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurringAppointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("recurring_appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	ra, err := scanRecurring(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecurringNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan recurring: %v", ErrScanRow, err)
	}
	return ra, nil
}

// List шаблоны; clientID ограничивает выборку шаблонами клиента
func (r *Repository) List(ctx context.Context, clientID *int64) ([]*domain.RecurringAppointment, error) {
	selectBuilder := r.sb.Select(columns...).
		From("recurring_appointments").
		OrderBy("id")
	if clientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *clientID})
	}
	return r.query(ctx, "List", selectBuilder)
}

// ListActive активные шаблоны для генерации записей
func (r *Repository) ListActive(ctx context.Context) ([]*domain.RecurringAppointment, error) {
	return r.query(ctx, "ListActive", r.sb.Select(columns...).
		From("recurring_appointments").
		Where(squirrel.Eq{"active": true}).
		OrderBy("id"))
}

// Deactivate останавливает генерацию записей по шаблону
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("recurring_appointments").
		Set("active", false).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	return r.execByID(ctx, executor, "Deactivate", query, args)
}

// SetLastGenerated сохраняет дату последнего сгенерированного вхождения
func (r *Repository) SetLastGenerated(ctx context.Context, id int64, date types.Date) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("recurring_appointments").
		Set("last_generated_date", date).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetLastGenerated - build update query: %v", ErrBuildQuery, err)
	}

	return r.execByID(ctx, executor, "SetLastGenerated", query, args)
}

func (r *Repository) execByID(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if n == 0 {
		return ErrRecurringNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.RecurringAppointment, error) {
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

	result := make([]*domain.RecurringAppointment, 0)
	for rows.Next() {
		ra, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan recurring: %v", ErrScanRow, op, err)
		}
		result = append(result, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecurring(row scanner) (*domain.RecurringAppointment, error) {
	var ra domain.RecurringAppointment
	err := row.Scan(
		&ra.ID,
		&ra.ClientID,
		&ra.ServiceID,
		&ra.ProfessionalID,
		&ra.Frequency,
		&ra.StartDate,
		&ra.EndDate,
		&ra.StartTime,
		&ra.Active,
		&ra.LastGeneratedDate,
		&ra.Notes,
		&ra.CreatedAt,
		&ra.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ra, nil
}
