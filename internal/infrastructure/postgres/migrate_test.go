package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/forecast?sslmode=disable", migrateURL("postgres://u:p@db:5432/forecast?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/forecast", migrateURL("postgresql://u@db/forecast"))
	assert.Equal(t, "pgx5://ya", migrateURL("pgx5://ya"))
}

func TestMigracionesEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWhereBuilder(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())
	w.add("o.city = %s", "BOGOTA")
	w.add("o.created_at >= %s AND o.created_at < %s", 1, 2)
	limit := w.arg(10)
	assert.Equal(t, " WHERE o.city = $1 AND o.created_at >= $2 AND o.created_at < $3", w.sql())
	assert.Equal(t, "$4", limit)
	assert.Equal(t, []any{"BOGOTA", 1, 2, 10}, w.args)
}
