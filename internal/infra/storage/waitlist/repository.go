package waitlist

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
	"entry_date",
	"preferred_time",
	"status",
	"offered_time",
	"notified_at",
	"expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create добавляет клиента в лист ожидания
func (r *Repository) Create(ctx context.Context, e *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()
	e.Status = domain.WaitlistWaiting

	query, args, err := r.sb.Insert("waitlist_entries").
		Columns("client_id", "service_id", "entry_date", "preferred_time", "status", "created_at", "updated_at").
		Values(e.ClientID, e.ServiceID, e.Date, e.PreferredTime, e.Status, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		if sqlbuilder.IsUniqueViolation(err) {
			return nil, ErrAlreadyWaiting
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	e.CreatedAt = now
	e.UpdatedAt = now
	return e, nil
}

// GetByID получает запись листа ожидания по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}
	return e, nil
}

// GetByClientID заявки клиента, новые первыми
func (r *Repository) GetByClientID(ctx context.Context, clientID int64) ([]*domain.WaitlistEntry, error) {
	return r.query(ctx, "GetByClientID", r.sb.Select(columns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("entry_date DESC", "id DESC"))
}

// List заявки по фильтру администратора в порядке очереди
func (r *Repository) List(ctx context.Context, filter domain.WaitlistFilter) ([]*domain.WaitlistEntry, error) {
	selectBuilder := r.sb.Select(columns...).
		From("waitlist_entries").
		OrderBy("entry_date", "created_at", "id")

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"entry_date": *filter.Date})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}

	return r.query(ctx, "List", selectBuilder)
}

// GetWaiting ожидающие заявки на услугу и дату в порядке поступления (FIFO)
func (r *Repository) GetWaiting(ctx context.Context, serviceID int64, date types.Date) ([]*domain.WaitlistEntry, error) {
	selectBuilder := r.sb.Select(columns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"service_id": serviceID, "entry_date": date, "status": domain.WaitlistWaiting}).
		OrderBy("created_at", "id")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = r.sb.ForUpdate(selectBuilder)
	}

	return r.query(ctx, "GetWaiting", selectBuilder)
}

// GetExpired уведомленные заявки, срок удержания которых истёк к моменту now
func (r *Repository) GetExpired(ctx context.Context, now time.Time) ([]*domain.WaitlistEntry, error) {
	return r.query(ctx, "GetExpired", r.sb.Select(columns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"status": domain.WaitlistNotified}).
		Where(squirrel.Lt{"expires_at": now.UTC()}).
		OrderBy("expires_at", "id"))
}

// MarkNotified переводит ожидающую заявку в notified с предложенным временем и сроком удержания
func (r *Repository) MarkNotified(ctx context.Context, id int64, offered types.TimeString, notifiedAt, expiresAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("waitlist_entries").
		Set("status", domain.WaitlistNotified).
		Set("offered_time", offered).
		Set("notified_at", notifiedAt.UTC()).
		Set("expires_at", expiresAt.UTC()).
		Set("updated_at", notifiedAt.UTC()).
		Where(squirrel.Eq{"id": id, "status": domain.WaitlistWaiting}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkNotified - build update query: %v", ErrBuildQuery, err)
	}

	return r.execStatusUpdate(ctx, executor, "MarkNotified", id, query, args)
}

// UpdateStatus меняет статус заявки, если текущий статус входит в from
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from []domain.WaitlistStatus, to domain.WaitlistStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	query, args, err := r.sb.Update("waitlist_entries").
		Set("status", to).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": allowed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execStatusUpdate(ctx, executor, "UpdateStatus", id, query, args)
}

func (r *Repository) execStatusUpdate(ctx context.Context, executor DBExecutor, op string, id int64, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.WaitlistEntry, error) {
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

	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan entry: %v", ErrScanRow, op, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	err := row.Scan(
		&e.ID,
		&e.ClientID,
		&e.ServiceID,
		&e.Date,
		&e.PreferredTime,
		&e.Status,
		&e.OfferedTime,
		&e.NotifiedAt,
		&e.ExpiresAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
