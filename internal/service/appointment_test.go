package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointease-api/internal/model"
	"appointease-api/internal/service"
	"appointease-api/internal/store/memstore"
)

func createAppointment(t *testing.T, svc *service.Service, scheduler, participant *model.User, when time.Time) *model.Appointment {
	t.Helper()
	a, err := svc.CreateAppointment(context.Background(), scheduler, service.CreateAppointmentInput{
		Title:         "Sync",
		DateTime:      when,
		ParticipantID: participant.ID,
	})
	require.NoError(t, err)
	return a
}

func future() time.Time { return time.Now().Add(48 * time.Hour) }

func TestCreateAppointment(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")

	when := future()
	a, err := svc.CreateAppointment(context.Background(), alice, service.CreateAppointmentInput{
		Title:         "Sync",
		Description:   "quarterly sync",
		DateTime:      when,
		AudioMessage:  "clips/greeting.ogg",
		ParticipantID: bob.ID,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, model.StatusPending, a.Status)
	assert.Equal(t, alice.ID, a.SchedulerID)
	assert.Equal(t, bob.ID, a.ParticipantID)
	assert.Equal(t, "quarterly sync", a.Description)
	assert.True(t, a.DateTime.Equal(when))
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")

	tests := []struct {
		name   string
		in     service.CreateAppointmentInput
		status int
	}{
		{"missing title", service.CreateAppointmentInput{DateTime: future(), ParticipantID: bob.ID}, 400},
		{"missing dateTime", service.CreateAppointmentInput{Title: "X", ParticipantID: bob.ID}, 400},
		{"missing participant", service.CreateAppointmentInput{Title: "X", DateTime: future()}, 400},
		{"self participant", service.CreateAppointmentInput{Title: "X", DateTime: future(), ParticipantID: alice.ID}, 400},
		{"unknown participant", service.CreateAppointmentInput{Title: "X", DateTime: future(), ParticipantID: "nope"}, 404},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(context.Background(), alice, tt.in)
			assertStatus(t, err, tt.status)
		})
	}
}

func TestCreatePendingPairConflict(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")

	first := createAppointment(t, svc, alice, bob, future())

	// second pending in the same direction
	_, err := svc.CreateAppointment(context.Background(), alice, service.CreateAppointmentInput{
		Title: "Again", DateTime: future(), ParticipantID: bob.ID,
	})
	assertStatus(t, err, 409)

	// and in the reverse direction
	_, err = svc.CreateAppointment(context.Background(), bob, service.CreateAppointmentInput{
		Title: "Reverse", DateTime: future(), ParticipantID: alice.ID,
	})
	assertStatus(t, err, 409)

	// once the pending one is resolved, a new proposal goes through
	_, err = svc.DeclineAppointment(context.Background(), bob, first.ID)
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), alice, service.CreateAppointmentInput{
		Title: "Retry", DateTime: future(), ParticipantID: bob.ID,
	})
	assert.NoError(t, err)
}

func TestAcceptLifecycle(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	a := createAppointment(t, svc, alice, bob, future())

	// the scheduler cannot accept their own proposal
	_, err := svc.AcceptAppointment(context.Background(), alice, a.ID)
	assertStatus(t, err, 403)

	got, err := svc.AcceptAppointment(context.Background(), bob, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status)

	// accepting twice is an illegal state transition
	_, err = svc.AcceptAppointment(context.Background(), bob, a.ID)
	assertStatus(t, err, 400)

	// declining after accepting is allowed: only "already this status" is guarded
	got, err = svc.DeclineAppointment(context.Background(), bob, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDeclined, got.Status)

	_, err = svc.DeclineAppointment(context.Background(), bob, a.ID)
	assertStatus(t, err, 400)
}

func TestDeclineRequiresParticipant(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	carol := registerUser(t, svc, st, "Carol", "carol1")
	a := createAppointment(t, svc, alice, bob, future())

	_, err := svc.DeclineAppointment(context.Background(), alice, a.ID)
	assertStatus(t, err, 403)
	_, err = svc.DeclineAppointment(context.Background(), carol, a.ID)
	assertStatus(t, err, 403)
}

func TestCancel(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	a := createAppointment(t, svc, alice, bob, future())

	// non-scheduler always gets 403, regardless of state
	_, err := svc.CancelAppointment(context.Background(), bob, a.ID)
	assertStatus(t, err, 403)

	got, err := svc.CancelAppointment(context.Background(), alice, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	_, err = svc.CancelAppointment(context.Background(), alice, a.ID)
	assertStatus(t, err, 400)
}

func TestCancelPastAppointment(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	a := createAppointment(t, svc, alice, bob, time.Now().Add(-time.Hour))

	_, err := svc.CancelAppointment(context.Background(), alice, a.ID)
	assertStatus(t, err, 400)
}

func TestNotFoundBeforeOwnership(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")

	// existence is checked first: an unknown id is a 404 for anyone
	for name, op := range map[string]func(context.Context, *model.User, string) (*model.Appointment, error){
		"cancel":  svc.CancelAppointment,
		"accept":  svc.AcceptAppointment,
		"decline": svc.DeclineAppointment,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := op(context.Background(), alice, "missing-id")
			assertStatus(t, err, 404)
		})
	}
}

func TestUpdateAppointment(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	a := createAppointment(t, svc, alice, bob, future())

	// participant cannot update
	title := "Renamed"
	_, err := svc.UpdateAppointment(context.Background(), bob, a.ID, service.UpdateAppointmentInput{Title: &title})
	assertStatus(t, err, 403)

	// only provided fields are replaced
	newTime := future().Add(time.Hour)
	got, err := svc.UpdateAppointment(context.Background(), alice, a.ID, service.UpdateAppointmentInput{
		Title:    &title,
		DateTime: &newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.DateTime.Equal(newTime))
	assert.Equal(t, model.StatusPending, got.Status)

	// omitted fields are retained
	desc := "details"
	got, err = svc.UpdateAppointment(context.Background(), alice, a.ID, service.UpdateAppointmentInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "details", got.Description)

	// a provided empty title is rejected, not stored
	empty := ""
	_, err = svc.UpdateAppointment(context.Background(), alice, a.ID, service.UpdateAppointmentInput{Title: &empty})
	assertStatus(t, err, 400)

	_, err = svc.UpdateAppointment(context.Background(), alice, "missing-id", service.UpdateAppointmentInput{Title: &title})
	assertStatus(t, err, 404)
}

func TestGetAppointment(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	carol := registerUser(t, svc, st, "Carol", "carol1")
	a := createAppointment(t, svc, alice, bob, future())

	got, err := svc.GetAppointment(context.Background(), alice, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Scheduler)
	require.NotNil(t, got.Participant)
	assert.Equal(t, "alice1", got.Scheduler.Username)
	assert.Equal(t, "bob1", got.Participant.Username)

	_, err = svc.GetAppointment(context.Background(), bob, a.ID)
	assert.NoError(t, err)

	// a third party gets the same 404 as a missing id
	_, err = svc.GetAppointment(context.Background(), carol, a.ID)
	assertStatus(t, err, 404)
	_, err = svc.GetAppointment(context.Background(), alice, "missing-id")
	assertStatus(t, err, 404)
}

func seedMany(t *testing.T, svc *service.Service, st *memstore.Store, scheduler *model.User, n int) []*model.Appointment {
	t.Helper()
	out := make([]*model.Appointment, 0, n)
	for i := 0; i < n; i++ {
		p := registerUser(t, svc, st, fmt.Sprintf("Peer %02d", i), fmt.Sprintf("peer%02d", i))
		out = append(out, createAppointment(t, svc, scheduler, p, future().Add(time.Duration(i)*time.Hour)))
	}
	return out
}

func TestListPagination(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	all := seedMany(t, svc, st, alice, 25)

	res, err := svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 10, res.Limit)
	require.Len(t, res.Appointments, 10)
	// items 11-20 of the set ordered by dateTime
	assert.Equal(t, all[10].ID, res.Appointments[0].ID)
	assert.Equal(t, all[19].ID, res.Appointments[9].ID)

	// last, short page
	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Total)
	assert.Len(t, res.Appointments, 5)

	// beyond the end
	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Appointments)
	assert.Equal(t, 25, res.Total)
}

func TestListDefaultsAndRoles(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	carol := registerUser(t, svc, st, "Carol", "carol1")

	scheduled := createAppointment(t, svc, alice, bob, future())
	invited := createAppointment(t, svc, carol, alice, future().Add(time.Hour))

	// default: both sides
	res, err := svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.Limit)

	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Role: model.RoleScheduler})
	require.NoError(t, err)
	require.Len(t, res.Appointments, 1)
	assert.Equal(t, scheduled.ID, res.Appointments[0].ID)

	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Role: model.RoleParticipant})
	require.NoError(t, err)
	require.Len(t, res.Appointments, 1)
	assert.Equal(t, invited.ID, res.Appointments[0].ID)

	// an outsider sees nothing
	res, err = svc.ListAppointments(context.Background(), bob, model.AppointmentFilter{Role: model.RoleScheduler})
	require.NoError(t, err)
	assert.Empty(t, res.Appointments)
	assert.Equal(t, 0, res.Total)
}

func TestListFilters(t *testing.T) {
	svc, st := newService(t)
	alice := registerUser(t, svc, st, "Alice", "alice1")
	bob := registerUser(t, svc, st, "Bob", "bob1")
	carol := registerUser(t, svc, st, "Carol", "carol1")

	past := createAppointment(t, svc, alice, bob, time.Now().Add(-time.Hour))
	upcoming := createAppointment(t, svc, alice, carol, future())

	_, err := svc.AcceptAppointment(context.Background(), carol, upcoming.ID)
	require.NoError(t, err)

	// title substring, case-insensitive
	res, err := svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Search: "syn"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Search: "standup"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)

	// status
	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Status: model.StatusAccepted})
	require.NoError(t, err)
	require.Len(t, res.Appointments, 1)
	assert.Equal(t, upcoming.ID, res.Appointments[0].ID)

	_, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{Status: "bogus"})
	assertStatus(t, err, 400)

	// upcoming / past against now
	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{DateFilter: model.DateFilterUpcoming})
	require.NoError(t, err)
	require.Len(t, res.Appointments, 1)
	assert.Equal(t, upcoming.ID, res.Appointments[0].ID)

	res, err = svc.ListAppointments(context.Background(), alice, model.AppointmentFilter{DateFilter: model.DateFilterPast})
	require.NoError(t, err)
	require.Len(t, res.Appointments, 1)
	assert.Equal(t, past.ID, res.Appointments[0].ID)
}
