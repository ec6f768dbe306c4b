// Package store holds the postgres repositories. All SQL lives here;
// invariants that need atomicity (one pending appointment per user pair,
// no double status transition) are enforced by the schema and by single
// conditional writes rather than read-then-write sequences.
package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
