package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"appointease-api/internal/apperr"
	"appointease-api/internal/model"
)

type CreateAppointmentInput struct {
	Title         string
	Description   string
	DateTime      time.Time
	AudioMessage  string
	ParticipantID string
}

// UpdateAppointmentInput carries optional replacements; nil fields keep the
// stored value.
type UpdateAppointmentInput struct {
	Title        *string
	Description  *string
	DateTime     *time.Time
	AudioMessage *string
}

type ListResult struct {
	Appointments []model.Appointment
	Page         int
	Limit        int
	Total        int
}

// CreateAppointment proposes a pending appointment with caller as scheduler.
func (s *Service) CreateAppointment(ctx context.Context, caller *model.User, in CreateAppointmentInput) (*model.Appointment, error) {
	if in.Title == "" || in.DateTime.IsZero() || in.ParticipantID == "" {
		return nil, apperr.BadRequest("Title, dateTime and participant are required")
	}
	if in.ParticipantID == caller.ID {
		return nil, apperr.BadRequest("You cannot schedule an appointment with yourself")
	}

	participant, err := s.users.UserByID(ctx, in.ParticipantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apperr.NotFound("Participant not found")
		}
		return nil, err
	}

	a := &model.Appointment{
		ID:            uuid.New().String(),
		Title:         in.Title,
		Description:   in.Description,
		DateTime:      in.DateTime,
		Status:        model.StatusPending,
		AudioMessage:  in.AudioMessage,
		SchedulerID:   caller.ID,
		ParticipantID: participant.ID,
	}
	if err := s.appts.CreateAppointment(ctx, a); err != nil {
		if errors.Is(err, model.ErrPendingPairExists) {
			return nil, apperr.Conflict("A pending appointment with this user already exists")
		}
		return nil, err
	}

	a.Scheduler = caller
	a.Participant = participant
	return a, nil
}

// CancelAppointment flips status to cancelled. Scheduler only; existence is
// checked before ownership, ownership before state.
func (s *Service) CancelAppointment(ctx context.Context, caller *model.User, id string) (*model.Appointment, error) {
	a, err := s.getForMutation(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.SchedulerID != caller.ID {
		return nil, apperr.Forbidden("You are not authorized to cancel this appointment")
	}
	if a.DateTime.Before(s.now()) {
		return nil, apperr.BadRequest("Appointment has already passed")
	}

	return s.transition(ctx, id, model.StatusCancelled)
}

// AcceptAppointment sets status to accepted. Participant only; the scheduler
// cannot accept their own proposal.
func (s *Service) AcceptAppointment(ctx context.Context, caller *model.User, id string) (*model.Appointment, error) {
	return s.respond(ctx, caller, id, model.StatusAccepted, "accept")
}

// DeclineAppointment sets status to declined. Participant only.
func (s *Service) DeclineAppointment(ctx context.Context, caller *model.User, id string) (*model.Appointment, error) {
	return s.respond(ctx, caller, id, model.StatusDeclined, "decline")
}

func (s *Service) respond(ctx context.Context, caller *model.User, id string, to model.Status, verb string) (*model.Appointment, error) {
	a, err := s.getForMutation(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.ParticipantID != caller.ID {
		return nil, apperr.Forbidden(fmt.Sprintf("You are not authorized to %s this appointment", verb))
	}

	return s.transition(ctx, id, to)
}

// UpdateAppointment replaces the provided fields, retaining the rest.
// Scheduler only; status is never touched here.
func (s *Service) UpdateAppointment(ctx context.Context, caller *model.User, id string, in UpdateAppointmentInput) (*model.Appointment, error) {
	a, err := s.getForMutation(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.SchedulerID != caller.ID {
		return nil, apperr.Forbidden("You are not authorized to update this appointment")
	}

	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.DateTime != nil {
		a.DateTime = *in.DateTime
	}
	if in.AudioMessage != nil {
		a.AudioMessage = *in.AudioMessage
	}
	if a.Title == "" || a.DateTime.IsZero() {
		return nil, apperr.BadRequest("Title and dateTime cannot be empty")
	}

	if err := s.appts.UpdateAppointment(ctx, a); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	return a, nil
}

// ListAppointments returns the caller's page of appointments plus paging meta.
func (s *Service) ListAppointments(ctx context.Context, caller *model.User, f model.AppointmentFilter) (*ListResult, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.BadRequest("Invalid status filter")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	items, total, err := s.appts.ListAppointments(ctx, caller.ID, f)
	if err != nil {
		return nil, err
	}
	return &ListResult{Appointments: items, Page: f.Page, Limit: f.Limit, Total: total}, nil
}

// GetAppointment looks the appointment up with the caller folded into the
// predicate, so a foreign appointment is indistinguishable from a missing one.
func (s *Service) GetAppointment(ctx context.Context, caller *model.User, id string) (*model.Appointment, error) {
	a, err := s.appts.AppointmentByIDForUser(ctx, id, caller.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) getForMutation(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := s.appts.AppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) transition(ctx context.Context, id string, to model.Status) (*model.Appointment, error) {
	a, err := s.appts.TransitionAppointment(ctx, id, to)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrStatusUnchanged):
			return nil, apperr.BadRequest(fmt.Sprintf("Appointment is already %s", to))
		case errors.Is(err, model.ErrNotFound):
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	return a, nil
}
