package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-NailSalon/internal/domain"
	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

var columns = []string{
	"id",
	"code",
	"discount_type",
	"value",
	"min_amount",
	"max_uses",
	"used_count",
	"valid_from",
	"valid_until",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий купонов
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория купонов
func NewRepository(db DBExecutor, sb sqlbuilder.Builder) *Repository {
	return &Repository{db: db, sb: sb}
}

// NormalizeCode коды купонов хранятся в верхнем регистре
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create создает купон
func (r *Repository) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()
	c.Code = NormalizeCode(c.Code)

	query, args, err := r.sb.Insert("coupons").
		Columns(
			"code",
			"discount_type",
			"value",
			"min_amount",
			"max_uses",
			"used_count",
			"valid_from",
			"valid_until",
			"active",
			"created_at",
			"updated_at",
		).
		Values(
			c.Code,
			c.DiscountType,
			c.Value,
			c.MinAmount,
			c.MaxUses,
			0,
			sqlbuilder.UTC(c.ValidFrom),
			sqlbuilder.UTC(c.ValidUntil),
			c.Active,
			now,
			now,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		if sqlbuilder.IsUniqueViolation(err) {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.UsedCount = 0
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

// GetByID получает купон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	return r.get(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByCode получает купон по коду без учета регистра
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.get(ctx, "GetByCode", squirrel.Eq{"code": NormalizeCode(code)})
}

func (r *Repository) get(ctx context.Context, op string, where squirrel.Eq) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("coupons").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	c, err := scanCoupon(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan coupon: %v", ErrScanRow, op, err)
	}
	return c, nil
}

// List все купоны, новые первыми
func (r *Repository) List(ctx context.Context) ([]*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From("coupons").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	coupons := make([]*domain.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan coupon: %v", ErrScanRow, err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrScanRow, err)
	}
	return coupons, nil
}

// Update обновляет условия купона (код и счетчик использований не меняются)
func (r *Repository) Update(ctx context.Context, c *domain.Coupon) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	now := time.Now().UTC()

	query, args, err := r.sb.Update("coupons").
		Set("discount_type", c.DiscountType).
		Set("value", c.Value).
		Set("min_amount", c.MinAmount).
		Set("max_uses", c.MaxUses).
		Set("valid_from", sqlbuilder.UTC(c.ValidFrom)).
		Set("valid_until", sqlbuilder.UTC(c.ValidUntil)).
		Set("active", c.Active).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	n, err := r.exec(ctx, executor, "Update", query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCouponNotFound
	}
	c.UpdatedAt = now
	return nil
}

// IncrementUsage атомарно увеличивает счетчик использований, если лимит не исчерпан
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("coupons").
		Set("used_count", squirrel.Expr("used_count + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"max_uses": 0},
			squirrel.Expr("used_count < max_uses"),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %v", ErrBuildQuery, err)
	}

	n, err := r.exec(ctx, executor, "IncrementUsage", query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrUsageLimitReached
	}
	return nil
}

// ReleaseUsage возвращает использование купона (при отмене записи)
func (r *Repository) ReleaseUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update("coupons").
		Set("used_count", squirrel.Expr("used_count - 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"used_count": 0}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReleaseUsage - build update query: %v", ErrBuildQuery, err)
	}

	_, err = r.exec(ctx, executor, "ReleaseUsage", query, args)
	return err
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCoupon(row scanner) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.Value,
		&c.MinAmount,
		&c.MaxUses,
		&c.UsedCount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
