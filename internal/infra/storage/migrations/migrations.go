package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/m04kA/SMC-NailSalon/pkg/sqlbuilder"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

var (
	// ErrInit возвращается, если не удалось подготовить мигратор
	ErrInit = errors.New("migrations: failed to init migrator")

	// ErrApply возвращается при ошибке применения миграций
	ErrApply = errors.New("migrations: failed to apply migrations")
)

// New создает мигратор для диалекта поверх встроенных SQL-файлов
// databaseURL в формате golang-migrate: postgres://... или sqlite://path
func New(dialect sqlbuilder.Dialect, databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("%w: source: %v", ErrInit, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	return m, nil
}

// Up применяет все новые миграции; отсутствие изменений не считается ошибкой
func Up(dialect sqlbuilder.Dialect, databaseURL string) error {
	m, err := New(dialect, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: up: %v", ErrApply, err)
	}
	return nil
}
