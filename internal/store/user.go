package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"appointease-api/internal/model"
)

const uniqueViolation = "23505"

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, username, password_hash)
		 VALUES ($1,$2,$3,$4)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Username, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrUsernameTaken
	}
	return err
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, name, username, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, name, username, password_hash, created_at, updated_at
		 FROM users WHERE username = $1`, username,
	))
}

func (s *Store) scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SearchUsers matches name as a case-insensitive substring or username
// exactly, excluding the caller. Each hit carries the id of a pending
// appointment between the hit and the caller when one exists; the pending
// pair index guarantees at most one such row, so the join cannot fan out.
func (s *Store) SearchUsers(ctx context.Context, callerID, search string) ([]model.UserMatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT u.id, u.name, u.username, u.created_at, u.updated_at,
		        COALESCE(a.id::text, '')
		 FROM users u
		 LEFT JOIN appointments a
		   ON a.status = 'pending'
		  AND ((a.scheduler_id = u.id AND a.participant_id = $1)
		    OR (a.scheduler_id = $1 AND a.participant_id = u.id))
		 WHERE u.id <> $1
		   AND (u.name ILIKE '%' || $2 || '%' OR u.username = $2)
		 ORDER BY u.name, u.username`,
		callerID, search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserMatch
	for rows.Next() {
		var m model.UserMatch
		if err := rows.Scan(
			&m.User.ID, &m.User.Name, &m.User.Username,
			&m.User.CreatedAt, &m.User.UpdatedAt,
			&m.PendingAppointmentID,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
