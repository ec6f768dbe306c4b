// Package memstore is an in-memory implementation of the repository
// interfaces, used by tests so service and handler behavior can be exercised
// without postgres. A single mutex serializes every operation, mirroring the
// conditional-write guarantees the SQL store gets from the database.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"appointease-api/internal/model"
)

type Store struct {
	mu           sync.Mutex
	users        map[string]*model.User
	byUsername   map[string]string
	appointments map[string]*model.Appointment
}

func New() *Store {
	return &Store{
		users:        make(map[string]*model.User),
		byUsername:   make(map[string]string),
		appointments: make(map[string]*model.Appointment),
	}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (s *Store) cloneAppointment(a *model.Appointment) *model.Appointment {
	c := *a
	if u, ok := s.users[a.SchedulerID]; ok {
		c.Scheduler = cloneUser(u)
	}
	if u, ok := s.users[a.ParticipantID]; ok {
		c.Participant = cloneUser(u)
	}
	return &c
}

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[u.Username]; taken {
		return model.ErrUsernameTaken
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = cloneUser(u)
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *Store) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) SearchUsers(_ context.Context, callerID, search string) ([]model.UserMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.UserMatch
	for _, u := range s.users {
		if u.ID == callerID {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) && u.Username != search {
			continue
		}
		m := model.UserMatch{User: *u}
		for _, a := range s.appointments {
			if a.Status == model.StatusPending && pairMatches(a, callerID, u.ID) {
				m.PendingAppointmentID = a.ID
				break
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].User.Name != out[j].User.Name {
			return out[i].User.Name < out[j].User.Name
		}
		return out[i].User.Username < out[j].User.Username
	})
	return out, nil
}

func pairMatches(a *model.Appointment, x, y string) bool {
	return (a.SchedulerID == x && a.ParticipantID == y) ||
		(a.SchedulerID == y && a.ParticipantID == x)
}

func (s *Store) CreateAppointment(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.appointments {
		if existing.Status == model.StatusPending && pairMatches(existing, a.SchedulerID, a.ParticipantID) {
			return model.ErrPendingPairExists
		}
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	c := *a
	s.appointments[a.ID] = &c
	return nil
}

func (s *Store) AppointmentByID(_ context.Context, id string) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (s *Store) AppointmentByIDForUser(_ context.Context, id, userID string) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok || (a.SchedulerID != userID && a.ParticipantID != userID) {
		return nil, model.ErrNotFound
	}
	return s.cloneAppointment(a), nil
}

func (s *Store) ListAppointments(_ context.Context, userID string, f model.AppointmentFilter) ([]model.Appointment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var matched []*model.Appointment
	for _, a := range s.appointments {
		switch f.Role {
		case model.RoleScheduler:
			if a.SchedulerID != userID {
				continue
			}
		case model.RoleParticipant:
			if a.ParticipantID != userID {
				continue
			}
		default:
			if a.SchedulerID != userID && a.ParticipantID != userID {
				continue
			}
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		switch f.DateFilter {
		case model.DateFilterUpcoming:
			if a.DateTime.Before(now) {
				continue
			}
		case model.DateFilterPast:
			if !a.DateTime.Before(now) {
				continue
			}
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DateTime.Equal(matched[j].DateTime) {
			return matched[i].DateTime.Before(matched[j].DateTime)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	skip := (f.Page - 1) * f.Limit
	if skip >= total {
		return nil, total, nil
	}
	end := skip + f.Limit
	if end > total {
		end = total
	}

	out := make([]model.Appointment, 0, end-skip)
	for _, a := range matched[skip:end] {
		out = append(out, *s.cloneAppointment(a))
	}
	return out, total, nil
}

func (s *Store) UpdateAppointment(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.appointments[a.ID]
	if !ok {
		return model.ErrNotFound
	}
	cur.Title = a.Title
	cur.Description = a.Description
	cur.DateTime = a.DateTime
	cur.AudioMessage = a.AudioMessage
	cur.UpdatedAt = time.Now()
	a.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Store) TransitionAppointment(_ context.Context, id string, to model.Status) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if a.Status == to {
		return nil, model.ErrStatusUnchanged
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	c := *a
	return &c, nil
}
