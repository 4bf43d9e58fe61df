package sqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Placeholders(t *testing.T) {
	pg := New(Postgres)
	query, args, err := pg.Select("id").From("appointments").
		Where(squirrel.Eq{"client_id": 7}).
		Where(squirrel.Eq{"status": "pending"}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments WHERE client_id = $1 AND status = $2", query)
	assert.Equal(t, []interface{}{7, "pending"}, args)

	lite := New(SQLite)
	query, _, err = lite.Select("id").From("appointments").Where(squirrel.Eq{"client_id": 7}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments WHERE client_id = ?", query)
}

func TestBuilder_ForUpdate(t *testing.T) {
	query, _, err := New(Postgres).ForUpdate(New(Postgres).Select("id").From("appointments")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments FOR UPDATE", query)

	query, _, err = New(SQLite).ForUpdate(New(SQLite).Select("id").From("appointments")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments", query)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect(" Postgres ")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	assert.Equal(t, "postgres", d.DriverName())

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.DriverName())

	_, err = ParseDialect("mysql")
	assert.ErrorIs(t, err, ErrUnknownDialect)
}
