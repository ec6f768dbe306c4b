package model

import (
	"errors"
	"time"
)

// Sentinel errors shared by every repository implementation.
var (
	ErrNotFound          = errors.New("not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrPendingPairExists = errors.New("pending appointment between pair exists")
	ErrStatusUnchanged   = errors.New("status already set")
)

type User struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserMatch is a user search hit enriched with the id of an existing pending
// appointment between the matched user and the searching caller, if any.
type UserMatch struct {
	User                 User
	PendingAppointmentID string
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID            string
	Title         string
	Description   string
	DateTime      time.Time
	Status        Status
	AudioMessage  string
	SchedulerID   string
	ParticipantID string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated on read paths only.
	Scheduler   *User
	Participant *User
}

// Date filter values for listing.
const (
	DateFilterUpcoming = "upcoming"
	DateFilterPast     = "past"
)

// Role filter values for listing.
const (
	RoleScheduler   = "scheduler"
	RoleParticipant = "participant"
)

// AppointmentFilter narrows a listing. Zero values mean "no restriction";
// Page and Limit are normalized by the service before reaching a repository.
type AppointmentFilter struct {
	Search     string
	Status     Status
	DateFilter string
	Role       string
	Page       int
	Limit      int
}
