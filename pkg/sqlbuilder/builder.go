package sqlbuilder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

// Dialect SQL-диалект хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ErrUnknownDialect возвращается для неподдерживаемого диалекта
var ErrUnknownDialect = errors.New("sqlbuilder: unknown dialect")

// ParseDialect разбирает название драйвера из конфигурации
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
}

// DriverName возвращает имя database/sql драйвера для диалекта
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// Builder squirrel.StatementBuilder с плейсхолдерами выбранного диалекта
// PostgreSQL - $1, $2; SQLite - ?
type Builder struct {
	sb      squirrel.StatementBuilderType
	dialect Dialect
}

// New создает builder для диалекта
func New(dialect Dialect) Builder {
	format := squirrel.PlaceholderFormat(squirrel.Dollar)
	if dialect == SQLite {
		format = squirrel.Question
	}
	return Builder{
		sb:      squirrel.StatementBuilder.PlaceholderFormat(format),
		dialect: dialect,
	}
}

// Dialect возвращает диалект builder'а
func (b Builder) Dialect() Dialect {
	return b.dialect
}

func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}

// ForUpdate добавляет блокировку строк там, где диалект её поддерживает
// SQLite блокирует всю базу на запись, поэтому суффикс не нужен
func (b Builder) ForUpdate(sel squirrel.SelectBuilder) squirrel.SelectBuilder {
	if b.dialect == Postgres {
		return sel.Suffix("FOR UPDATE")
	}
	return sel
}

// UTC приводит опциональное время к UTC
// SQLite хранит время текстом, поэтому сравнение корректно только в одной зоне
func UTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
