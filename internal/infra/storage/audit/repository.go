package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

// DefaultLimit размер страницы журнала по умолчанию
const DefaultLimit = 50

// Repository журнал действий администраторов (только добавление)
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// Create добавляет запись в журнал
func (r *Repository) Create(ctx context.Context, e *domain.AuditEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	var details *string
	if len(e.Details) > 0 {
		s := string(e.Details)
		details = &s
	}

	query, args, err := r.sb.Insert("audit_log").
		Columns("actor_id", "action", "entity", "entity_id", "details", "created_at").
		Values(e.ActorID, e.Action, e.Entity, e.EntityID, details, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	e.CreatedAt = now
	return nil
}

// List записи журнала, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	limit := filter.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	selectBuilder := r.sb.Select("id", "actor_id", "action", "entity", "entity_id", "details", "created_at").
		From("audit_log").
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		Offset(filter.Offset)
	if filter.Entity != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"entity": *filter.Entity})
	}
	if filter.ActorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"actor_id": *filter.ActorID})
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

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		var (
			e       domain.AuditEntry
			details sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan entry: %v", ErrScanRow, err)
		}
		if details.Valid {
			e.Details = json.RawMessage(details.String)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}
	return entries, nil
}
