// Package service implements the application core: identity, appointment
// lifecycle, and listing. Every operation takes the resolved caller as an
// explicit parameter; nothing here reads ambient request state.
package service

import (
	"context"
	"time"

	"appointease-api/internal/model"
)

// UserRepo is the identity store.
type UserRepo interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	SearchUsers(ctx context.Context, callerID, search string) ([]model.UserMatch, error)
}

// AppointmentRepo is the appointment store. CreateAppointment and
// TransitionAppointment are single conditional writes: they fail with
// model.ErrPendingPairExists / model.ErrStatusUnchanged instead of relying
// on the caller to have checked first.
type AppointmentRepo interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	AppointmentByIDForUser(ctx context.Context, id, userID string) (*model.Appointment, error)
	ListAppointments(ctx context.Context, userID string, f model.AppointmentFilter) ([]model.Appointment, int, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	TransitionAppointment(ctx context.Context, id string, to model.Status) (*model.Appointment, error)
}

type Service struct {
	users    UserRepo
	appts    AppointmentRepo
	secret   string
	tokenTTL time.Duration

	now func() time.Time
}

func New(users UserRepo, appts AppointmentRepo, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		appts:    appts,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}
