package settings

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

var configColumns = []string{
	"id",
	"service_id",
	"slot_duration_minutes",
	"max_concurrent_bookings",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"cancellation_notice_minutes",
	"waitlist_hold_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек расписания и часов работы
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// GetByService получает конфигурацию конкретной услуги или глобальную (serviceID == nil)
func (r *Repository) GetByService(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select(configColumns...).From("scheduling_configs")
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByService - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByService - scan config: %v", ErrScanRow, err)
	}
	return cfg, nil
}

// GetConfigWithHierarchy получает конфигурацию с учетом приоритетов:
// 1. конфигурация услуги (если serviceID задан)
// 2. глобальная конфигурация салона
//
// Если не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, serviceID *int64) (*domain.SchedulingConfig, error) {
	if serviceID != nil {
		cfg, err := r.GetByService(ctx, serviceID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: GetConfigWithHierarchy - service level: %v", ErrExecQuery, err)
		}
	}

	cfg, err := r.GetByService(ctx, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - global level: %v", ErrExecQuery, err)
	}
	return nil, ErrConfigNotFound
}

// ListConfigs возвращает все конфигурации, глобальная первой
func (r *Repository) ListConfigs(ctx context.Context) ([]*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(configColumns...).
		From("scheduling_configs").
		OrderBy("CASE WHEN service_id IS NULL THEN 0 ELSE 1 END", "service_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfigs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfigs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.SchedulingConfig, 0)
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListConfigs - scan config: %v", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListConfigs - rows iteration: %v", ErrScanRow, err)
	}
	return configs, nil
}

// Upsert обновляет конфигурацию уровня cfg.ServiceID или создает её, если её еще нет
// Вызывать внутри транзакции, чтобы update и insert не разошлись
func (r *Repository) Upsert(ctx context.Context, cfg *domain.SchedulingConfig) (*domain.SchedulingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	var where squirrel.Eq
	if cfg.ServiceID == nil {
		where = squirrel.Eq{"service_id": nil}
	} else {
		where = squirrel.Eq{"service_id": *cfg.ServiceID}
	}

	query, args, err := r.sb.Update("scheduling_configs").
		Set("slot_duration_minutes", cfg.SlotDurationMinutes).
		Set("max_concurrent_bookings", cfg.MaxConcurrentBookings).
		Set("advance_booking_days", cfg.AdvanceBookingDays).
		Set("min_booking_notice_minutes", cfg.MinBookingNoticeMinutes).
		Set("cancellation_notice_minutes", cfg.CancellationNoticeMinutes).
		Set("waitlist_hold_minutes", cfg.WaitlistHoldMinutes).
		Set("updated_at", now).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute update: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - get rows affected: %v", ErrExecQuery, err)
	}
	if n > 0 {
		return r.GetByService(ctx, cfg.ServiceID)
	}

	query, args, err = r.sb.Insert("scheduling_configs").
		Columns(
			"service_id",
			"slot_duration_minutes",
			"max_concurrent_bookings",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"cancellation_notice_minutes",
			"waitlist_hold_minutes",
			"created_at",
			"updated_at",
		).
		Values(
			cfg.ServiceID,
			cfg.SlotDurationMinutes,
			cfg.MaxConcurrentBookings,
			cfg.AdvanceBookingDays,
			cfg.MinBookingNoticeMinutes,
			cfg.CancellationNoticeMinutes,
			cfg.WaitlistHoldMinutes,
			now,
			now,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	return cfg, nil
}

// DeleteServiceConfig удаляет переопределение услуги; глобальную конфигурацию удалить нельзя
func (r *Repository) DeleteServiceConfig(ctx context.Context, serviceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete("scheduling_configs").Where(squirrel.Eq{"service_id": serviceID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteServiceConfig - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteServiceConfig - execute delete: %v", ErrExecQuery, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteServiceConfig - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrConfigNotFound
	}
	return nil
}

// ListBusinessHours возвращает расписание салона по дням недели (воскресенье = 0)
func (r *Repository) ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("weekday", "is_open", "open_time", "close_time", "updated_at").
		From("business_hours").
		OrderBy("weekday").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	week := make([]*domain.BusinessHours, 0, 7)
	for rows.Next() {
		var bh domain.BusinessHours
		if err := rows.Scan(&bh.Weekday, &bh.IsOpen, &bh.OpenTime, &bh.CloseTime, &bh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBusinessHours - scan: %v", ErrScanRow, err)
		}
		week = append(week, &bh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - rows iteration: %v", ErrScanRow, err)
	}
	return week, nil
}

// UpsertBusinessHours сохраняет расписание одного дня недели
func (r *Repository) UpsertBusinessHours(ctx context.Context, bh *domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	openTime, closeTime := bh.OpenTime, bh.CloseTime
	if !bh.IsOpen {
		openTime, closeTime = "", ""
	}

	query, args, err := r.sb.Insert("business_hours").
		Columns("weekday", "is_open", "open_time", "close_time", "updated_at").
		Values(int(bh.Weekday), bh.IsOpen, openTime, closeTime, now).
		Suffix("ON CONFLICT (weekday) DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, open_time = EXCLUDED.open_time, " +
			"close_time = EXCLUDED.close_time, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - execute upsert: %v", ErrExecQuery, err)
	}
	bh.UpdatedAt = now
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row scanner) (*domain.SchedulingConfig, error) {
	var cfg domain.SchedulingConfig
	err := row.Scan(
		&cfg.ID,
		&cfg.ServiceID,
		&cfg.SlotDurationMinutes,
		&cfg.MaxConcurrentBookings,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&cfg.CancellationNoticeMinutes,
		&cfg.WaitlistHoldMinutes,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
