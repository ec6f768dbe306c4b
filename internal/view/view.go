// Package view shapes domain records into the presentation objects the API
// returns. Derived fields (isScheduler, isDueDateExceeded) are computed here
// from the record and the viewing caller, never persisted.
package view

import (
	"time"

	"appointease-api/internal/model"
)

type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type UserDetail struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRow is a user search hit as seen by the searching caller.
type UserRow struct {
	UserSummary
	HasPendingAppointment bool   `json:"hasPendingAppointment"`
	PendingAppointmentID  string `json:"pendingAppointmentId,omitempty"`
}

// AppointmentRow is the slim listing shape: no description or audio message.
type AppointmentRow struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	DateTime    time.Time    `json:"dateTime"`
	Status      model.Status `json:"status"`
	Scheduler   UserSummary  `json:"scheduler"`
	Participant UserSummary  `json:"participant"`
	IsScheduler bool         `json:"isScheduler"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type AppointmentDetail struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	DateTime          time.Time    `json:"dateTime"`
	Status            model.Status `json:"status"`
	AudioMessage      string       `json:"audioMessage"`
	SchedulerID       string       `json:"schedulerId"`
	ParticipantID     string       `json:"participantId"`
	Scheduler         *UserSummary `json:"scheduler,omitempty"`
	Participant       *UserSummary `json:"participant,omitempty"`
	IsScheduler       bool         `json:"isScheduler"`
	IsDueDateExceeded bool         `json:"isDueDateExceeded"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func NewUserSummary(u *model.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}

func NewUserDetail(u *model.User) UserDetail {
	return UserDetail{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserRow(m model.UserMatch) UserRow {
	return UserRow{
		UserSummary:           NewUserSummary(&m.User),
		HasPendingAppointment: m.PendingAppointmentID != "",
		PendingAppointmentID:  m.PendingAppointmentID,
	}
}

func NewAppointmentRow(a *model.Appointment, viewerID string) AppointmentRow {
	return AppointmentRow{
		ID:          a.ID,
		Title:       a.Title,
		DateTime:    a.DateTime,
		Status:      a.Status,
		Scheduler:   NewUserSummary(a.Scheduler),
		Participant: NewUserSummary(a.Participant),
		IsScheduler: a.SchedulerID == viewerID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func NewAppointmentDetail(a *model.Appointment, viewerID string, now time.Time) AppointmentDetail {
	d := AppointmentDetail{
		ID:                a.ID,
		Title:             a.Title,
		Description:       a.Description,
		DateTime:          a.DateTime,
		Status:            a.Status,
		AudioMessage:      a.AudioMessage,
		SchedulerID:       a.SchedulerID,
		ParticipantID:     a.ParticipantID,
		IsScheduler:       a.SchedulerID == viewerID,
		IsDueDateExceeded: a.DateTime.Before(now),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.Scheduler != nil {
		s := NewUserSummary(a.Scheduler)
		d.Scheduler = &s
	}
	if a.Participant != nil {
		p := NewUserSummary(a.Participant)
		d.Participant = &p
	}
	return d
}
