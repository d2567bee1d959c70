package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier operaciones comunes de *pgxpool.Pool y pgx.Tx; los repositorios
// funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// validID un id que no es UUID nunca existe en la base.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullableID NULL para ids vacíos.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
