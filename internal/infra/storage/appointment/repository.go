package appointment

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
	"appointment_date",
	"start_time",
	"duration_minutes",
	"status",
	"service_name",
	"price",
	"discount",
	"final_price",
	"coupon_id",
	"recurring_id",
	"waitlist_id",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"completed_at",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create создает запись
// Если в контексте есть транзакция, использует её: создание записи всегда идёт
// после проверки доступности слота в той же сериализуемой транзакции
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	query, args, err := r.sb.Insert("appointments").
		Columns(
			"client_id",
			"service_id",
			"professional_id",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"status",
			"service_name",
			"price",
			"discount",
			"final_price",
			"coupon_id",
			"recurring_id",
			"waitlist_id",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			a.ClientID,
			a.ServiceID,
			a.ProfessionalID,
			a.Date,
			a.StartTime,
			a.DurationMinutes,
			a.Status,
			a.ServiceName,
			a.Price,
			a.Discount,
			a.FinalPrice,
			a.CouponID,
			a.RecurringID,
			a.WaitlistID,
			a.Notes,
			now,
			now,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		if a.RecurringID != nil && sqlbuilder.IsUniqueViolation(err) {
			return nil, ErrDuplicateOccurrence
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, "GetByID", id, false)
}

// GetByIDForUpdate получает запись по ID с блокировкой строки (в транзакции)
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, "GetByIDForUpdate", id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, op string, id int64, lock bool) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})
	if lock {
		selectBuilder = r.sb.ForUpdate(selectBuilder)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}
	return a, nil
}

// GetByClientID получает записи клиента, новые первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByClientID(ctx context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	selectBuilder := r.sb.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("appointment_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.query(ctx, "GetByClientID", selectBuilder)
}

// GetWithFilter получает записи с гибкой фильтрацией:
// период (StartDate, EndDate), статус, мастер, клиент, услуга
// Без IncludeInactive и без явного статуса возвращаются только активные записи
//
// Если фильтр задает ровно один день и вызов идет в транзакции, строки блокируются (FOR UPDATE),
// чтобы параллельные записи на тот же день выстраивались в очередь
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	selectBuilder := r.sb.Select(columns...).
		From("appointments").
		OrderBy("appointment_date", "start_time", "id")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatuses()})
	}
	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)
	if singleDay && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = r.sb.ForUpdate(selectBuilder)
	}

	return r.query(ctx, "GetWithFilter", selectBuilder)
}

// GetActiveByDate активные записи на дату (для расчета доступности)
func (r *Repository) GetActiveByDate(ctx context.Context, date types.Date) ([]*domain.Appointment, error) {
	return r.GetWithFilter(ctx, domain.AppointmentFilter{StartDate: &date, EndDate: &date})
}

// GetDueForReminder подтвержденные записи в диапазоне дат, по которым еще не отправлено напоминание
func (r *Repository) GetDueForReminder(ctx context.Context, from, to types.Date) ([]*domain.Appointment, error) {
	selectBuilder := r.sb.Select(columns...).
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusConfirmed, "reminder_sent_at": nil}).
		Where(squirrel.GtOrEq{"appointment_date": from}).
		Where(squirrel.LtOrEq{"appointment_date": to}).
		OrderBy("appointment_date", "start_time")

	return r.query(ctx, "GetDueForReminder", selectBuilder)
}

// UpdateStatus меняет статус, если текущий статус равен from
// Для completed фиксируется completed_at
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := r.sb.Update("appointments").
		Set("status", to).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": from})
	if to == domain.StatusCompleted {
		updateBuilder = updateBuilder.Set("completed_at", at.UTC())
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

// Cancel отменяет активную запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at.UTC()).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": activeStatuses()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrCannotCancel
	}
	return nil
}

// MarkReminderSent отмечает, что напоминание о записи отправлено
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("appointments").
		Set("reminder_sent_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
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

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}
	return appointments, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row scanner) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.ServiceID,
		&a.ProfessionalID,
		&a.Date,
		&a.StartTime,
		&a.DurationMinutes,
		&a.Status,
		&a.ServiceName,
		&a.Price,
		&a.Discount,
		&a.FinalPrice,
		&a.CouponID,
		&a.RecurringID,
		&a.WaitlistID,
		&a.Notes,
		&a.CancellationReason,
		&a.CancelledAt,
		&a.CompletedAt,
		&a.ReminderSentAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func activeStatuses() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
