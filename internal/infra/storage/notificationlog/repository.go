package notificationlog

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

// DefaultLimit размер выборки по умолчанию
const DefaultLimit = 100

// Repository журнал попыток доставки уведомлений
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория журнала уведомлений
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create записывает попытку доставки
func (r *Repository) Create(ctx context.Context, l *domain.NotificationLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	var userID *int64
	if l.UserID != 0 {
		userID = &l.UserID
	}

	query, args, err := r.sb.Insert("notification_log").
		Columns("user_id", "event", "channel", "recipient", "status", "attempt", "error", "created_at").
		Values(userID, l.Event, l.Channel, l.Recipient, l.Status, l.Attempt, l.Error, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&l.ID); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	l.CreatedAt = now
	return nil
}

// List последние попытки доставки
func (r *Repository) List(ctx context.Context, filter domain.NotificationLogFilter) ([]*domain.NotificationLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	limit := filter.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	selectBuilder := r.sb.Select("id", "COALESCE(user_id, 0)", "event", "channel", "recipient", "status", "attempt", "error", "created_at").
		From("notification_log").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit)
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
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

	logs := make([]*domain.NotificationLog, 0)
	for rows.Next() {
		var l domain.NotificationLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Event, &l.Channel, &l.Recipient, &l.Status, &l.Attempt, &l.Error, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan log: %v", ErrScanRow, err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}
	return logs, nil
}
