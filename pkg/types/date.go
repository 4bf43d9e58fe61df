package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateLayout формат календарной даты
const DateLayout = "2006-01-02"

// ErrInvalidDate возвращается при некорректном формате даты
var ErrInvalidDate = errors.New("invalid date format")

// Date календарная дата без времени (полночь UTC)
// В БД хранится как DATE (PostgreSQL) или TEXT YYYY-MM-DD (SQLite),
// поэтому лексикографическое сравнение совпадает с хронологическим
type Date struct {
	time.Time
}

// NewDate отбрасывает время и часовой пояс, сохраняя календарный день t
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate парсит строку YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Today возвращает текущую дату для момента now
func Today(now time.Time) Date {
	return NewDate(now)
}

// AddDays возвращает дату, сдвинутую на n дней
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Before возвращает true, если d строго раньше other
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After возвращает true, если d строго позже other
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal сравнивает календарные дни
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// String реализует fmt.Stringer
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Value реализует driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// Scan реализует sql.Scanner
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON сериализует дату как "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}
