package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"appointease-api/internal/model"
)

const pendingPairIndex = "appointments_pending_pair_idx"

// CreateAppointment inserts a pending appointment. The partial unique index
// on the unordered (scheduler, participant) pair makes the "one pending
// appointment per pair" rule a property of the insert itself: two racing
// creates cannot both succeed.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments
		   (id, title, description, date_time, status, audio_message, scheduler_id, participant_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Description, a.DateTime, a.Status, a.AudioMessage,
		a.SchedulerID, a.ParticipantID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == pendingPairIndex {
		return model.ErrPendingPairExists
	}
	return err
}

const appointmentColumns = `a.id, a.title, a.description, a.date_time, a.status, a.audio_message,
	a.scheduler_id, a.participant_id, a.created_at, a.updated_at`

const appointmentJoined = appointmentColumns + `,
	s.id, s.name, s.username,
	p.id, p.name, p.username`

const appointmentFrom = `FROM appointments a
	JOIN users s ON s.id = a.scheduler_id
	JOIN users p ON p.id = a.participant_id`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.DateTime, &a.Status, &a.AudioMessage,
		&a.SchedulerID, &a.ParticipantID, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scanAppointmentJoined(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{Scheduler: &model.User{}, Participant: &model.User{}}
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.DateTime, &a.Status, &a.AudioMessage,
		&a.SchedulerID, &a.ParticipantID, &a.CreatedAt, &a.UpdatedAt,
		&a.Scheduler.ID, &a.Scheduler.Name, &a.Scheduler.Username,
		&a.Participant.ID, &a.Participant.Name, &a.Participant.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1`, id,
	))
}

// AppointmentByIDForUser folds authorization into the lookup predicate:
// an appointment the user is not a side of looks exactly like a missing one.
func (s *Store) AppointmentByIDForUser(ctx context.Context, id, userID string) (*model.Appointment, error) {
	return scanAppointmentJoined(s.pool.QueryRow(ctx,
		`SELECT `+appointmentJoined+` `+appointmentFrom+`
		 WHERE a.id = $1 AND (a.scheduler_id = $2 OR a.participant_id = $2)`,
		id, userID,
	))
}

// ListAppointments returns the filtered page plus the total match count.
func (s *Store) ListAppointments(ctx context.Context, userID string, f model.AppointmentFilter) ([]model.Appointment, int, error) {
	base := `(a.scheduler_id = $1 OR a.participant_id = $1)`
	switch f.Role {
	case model.RoleScheduler:
		base = `a.scheduler_id = $1`
	case model.RoleParticipant:
		base = `a.participant_id = $1`
	}

	where := []string{base}
	args := []any{userID}

	if f.Search != "" {
		args = append(args, f.Search)
		where = append(where, fmt.Sprintf(`a.title ILIKE '%%' || $%d || '%%'`, len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf(`a.status = $%d`, len(args)))
	}
	switch f.DateFilter {
	case model.DateFilterUpcoming:
		where = append(where, `a.date_time >= now()`)
	case model.DateFilterPast:
		where = append(where, `a.date_time < now()`)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM appointments a WHERE `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentJoined+` `+appointmentFrom+`
		 WHERE `+cond+`
		 ORDER BY a.date_time, a.id
		 LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointmentJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET title=$2, description=$3, date_time=$4, audio_message=$5, updated_at=now()
		 WHERE id=$1
		 RETURNING updated_at`,
		a.ID, a.Title, a.Description, a.DateTime, a.AudioMessage,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// TransitionAppointment sets the status with a single conditional write.
// The status <> target guard means a second identical transition matches
// nothing, which surfaces as ErrStatusUnchanged; concurrent requests cannot
// both apply.
func (s *Store) TransitionAppointment(ctx context.Context, id string, to model.Status) (*model.Appointment, error) {
	a, err := scanAppointment(s.pool.QueryRow(ctx,
		`UPDATE appointments a SET status=$2, updated_at=now()
		 WHERE a.id=$1 AND a.status <> $2
		 RETURNING `+appointmentColumns,
		id, to,
	))
	if errors.Is(err, model.ErrNotFound) {
		// Missing row or already in the target status; look once to tell apart.
		var cur model.Status
		lookupErr := s.pool.QueryRow(ctx,
			`SELECT status FROM appointments WHERE id=$1`, id,
		).Scan(&cur)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		if lookupErr != nil {
			return nil, lookupErr
		}
		return nil, model.ErrStatusUnchanged
	}
	return a, err
}
