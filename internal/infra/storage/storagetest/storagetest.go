// Package storagetest поднимает мигрированную SQLite базу для тестов репозиториев
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-NailSalon/internal/config"
	"github.com/m04kA/SMC-NailSalon/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-NailSalon/pkg/dbmetrics"
	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

// DB тестовая база и builder для её диалекта
type DB struct {
	*dbmetrics.DB
	Builder sqlbuilder.Builder
}

// New создает файл SQLite во временной директории и применяет миграции
func New(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "salon.db")
	require.NoError(t, migrations.Up(sqlbuilder.SQLite, "sqlite://"+path))

	dsn := config.DatabaseConfig{Driver: "sqlite", Path: path}.DSN()
	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	return &DB{
		DB:      dbmetrics.Wrap(raw, nil, "test"),
		Builder: sqlbuilder.New(sqlbuilder.SQLite),
	}
}

// SeedUser вставляет пользователя напрямую и возвращает его ID
func (d *DB) SeedUser(t *testing.T, email, role string) int64 {
	t.Helper()
	now := time.Now().UTC()
	return d.insert(t, `INSERT INTO users (email, name, phone, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?) RETURNING id`, email, "User "+email, "+70000000000", role, now, now)
}

// SeedService вставляет услугу и возвращает её ID
func (d *DB) SeedService(t *testing.T, name string, duration int, price float64) int64 {
	t.Helper()
	now := time.Now().UTC()
	return d.insert(t, `INSERT INTO services (name, duration_minutes, price, active, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?) RETURNING id`, name, duration, price, now, now)
}

// SeedProfessional вставляет мастера и возвращает его ID
func (d *DB) SeedProfessional(t *testing.T, name string, rate float64) int64 {
	t.Helper()
	now := time.Now().UTC()
	return d.insert(t, `INSERT INTO professionals (name, commission_rate, active, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?) RETURNING id`, name, rate, now, now)
}

// SeedAppointment вставляет запись и возвращает её ID
func (d *DB) SeedAppointment(t *testing.T, clientID, serviceID int64, date, start, status string) int64 {
	t.Helper()
	now := time.Now().UTC()
	return d.insert(t, `INSERT INTO appointments (client_id, service_id, appointment_date, start_time, duration_minutes,
		status, service_name, price, discount, final_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, 60, ?, 'Manicure', 50, 0, 50, ?, ?) RETURNING id`,
		clientID, serviceID, date, start, status, now, now)
}

func (d *DB) insert(t *testing.T, query string, args ...interface{}) int64 {
	t.Helper()
	var id int64
	require.NoError(t, d.QueryRowContext(context.Background(), query, args...).Scan(&id))
	return id
}
