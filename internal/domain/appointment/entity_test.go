//go:build unit

package appointment_test

import (
	"testing"
	"time"

	"counseling-portal/internal/domain/appointment"
	"counseling-portal/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	testWindow = appointment.BookingWindow{
		MinAdvance: 24 * time.Hour,
		MaxAdvance: 90 * 24 * time.Hour,
	}
)

func pendingAppointment(t *testing.T) *appointment.Appointment {
	t.Helper()
	appt, err := appointment.NewAppointment(uuid.New(), uuid.New(), testNow.Add(48*time.Hour), 60, nil)
	require.NoError(t, err)
	return appt
}

func reconstructWithStatus(status appointment.Status) *appointment.Appointment {
	return appointment.ReconstructAppointment(
		uuid.New(), uuid.New(), uuid.New(),
		testNow.Add(48*time.Hour), 60, status,
		nil, nil, nil, nil,
		nil, nil,
		testNow.Add(-time.Hour), testNow.Add(-time.Hour),
	)
}

func TestNewAppointment(t *testing.T) {
	t.Run("starts pending with UTC time", func(t *testing.T) {
		loc, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		local := time.Date(2025, 3, 12, 10, 0, 0, 0, loc)

		appt, err := appointment.NewAppointment(uuid.New(), uuid.New(), local, 60, ptr.To("first visit"))
		require.NoError(t, err)

		assert.Equal(t, appointment.StatusPending, appt.Status())
		assert.Equal(t, time.UTC, appt.DateTime().Location())
		assert.True(t, appt.DateTime().Equal(local))
		assert.Equal(t, 60, appt.DurationMinutes())
		require.NotNil(t, appt.ClientNotes())
		assert.Equal(t, "first visit", *appt.ClientNotes())
		assert.True(t, appt.IsActive())
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := appointment.NewAppointment(uuid.New(), uuid.New(), testNow.Add(48*time.Hour), 0, nil)
		require.ErrorIs(t, err, appointment.ErrInvalidDuration)

		_, err = appointment.NewAppointment(uuid.New(), uuid.New(), testNow.Add(48*time.Hour), -30, nil)
		require.ErrorIs(t, err, appointment.ErrInvalidDuration)
	})
}

func TestEndTimeAndWindow(t *testing.T) {
	appt := pendingAppointment(t)

	assert.Equal(t, appt.DateTime().Add(60*time.Minute), appt.EndTime())

	window := appt.Window()
	assert.True(t, window.Start().Equal(appt.DateTime()))
	assert.True(t, window.End().Equal(appt.EndTime()))
}

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from    appointment.Status
		to      appointment.Status
		allowed bool
	}{
		{appointment.StatusPending, appointment.StatusConfirmed, true},
		{appointment.StatusPending, appointment.StatusCompleted, true},
		{appointment.StatusPending, appointment.StatusCancelled, true},
		{appointment.StatusPending, appointment.StatusNoShow, true},
		{appointment.StatusConfirmed, appointment.StatusCompleted, true},
		{appointment.StatusConfirmed, appointment.StatusCancelled, true},
		{appointment.StatusConfirmed, appointment.StatusNoShow, true},
		{appointment.StatusConfirmed, appointment.StatusConfirmed, false},
		{appointment.StatusCompleted, appointment.StatusCancelled, false},
		{appointment.StatusCompleted, appointment.StatusConfirmed, false},
		{appointment.StatusCancelled, appointment.StatusPending, false},
		{appointment.StatusCancelled, appointment.StatusConfirmed, false},
		{appointment.StatusNoShow, appointment.StatusCompleted, false},
		{appointment.StatusNoShow, appointment.StatusConfirmed, false},
	}

	for _, c := range cases {
		t.Run(string(c.from)+" to "+string(c.to), func(t *testing.T) {
			assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to))
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.False(t, appointment.StatusPending.IsTerminal())
	assert.False(t, appointment.StatusConfirmed.IsTerminal())
	assert.True(t, appointment.StatusCompleted.IsTerminal())
	assert.True(t, appointment.StatusCancelled.IsTerminal())
	assert.True(t, appointment.StatusNoShow.IsTerminal())

	assert.ElementsMatch(t,
		[]appointment.Status{appointment.StatusPending, appointment.StatusConfirmed},
		appointment.ActiveStatuses())

	_, err := appointment.NewStatus("unknown")
	require.ErrorIs(t, err, appointment.ErrInvalidStatus)

	parsed, err := appointment.NewStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, parsed)
}

func TestConfirm(t *testing.T) {
	t.Run("pending confirms", func(t *testing.T) {
		appt := pendingAppointment(t)
		require.NoError(t, appt.Confirm(testNow))
		assert.Equal(t, appointment.StatusConfirmed, appt.Status())
		assert.True(t, appt.UpdatedAt().Equal(testNow))
	})

	t.Run("terminal statuses refuse", func(t *testing.T) {
		for _, status := range []appointment.Status{
			appointment.StatusCompleted,
			appointment.StatusCancelled,
			appointment.StatusNoShow,
		} {
			appt := reconstructWithStatus(status)
			err := appt.Confirm(testNow)
			require.ErrorIs(t, err, appointment.ErrInvalidTransition)

			var transitionErr *appointment.TransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, status, transitionErr.From)
			assert.Equal(t, appointment.StatusConfirmed, transitionErr.To)
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("records the trimmed reason", func(t *testing.T) {
		appt := pendingAppointment(t)
		require.NoError(t, appt.Cancel("  feeling unwell  ", testNow))

		assert.Equal(t, appointment.StatusCancelled, appt.Status())
		require.NotNil(t, appt.CancellationReason())
		assert.Equal(t, "feeling unwell", *appt.CancellationReason())
		assert.False(t, appt.IsActive())
	})

	t.Run("requires a reason", func(t *testing.T) {
		appt := pendingAppointment(t)
		err := appt.Cancel("   ", testNow)
		require.ErrorIs(t, err, appointment.ErrEmptyCancelReason)
		assert.Equal(t, appointment.StatusPending, appt.Status())
	})

	t.Run("cancelled twice fails", func(t *testing.T) {
		appt := pendingAppointment(t)
		require.NoError(t, appt.Cancel("conflict", testNow))
		err := appt.Cancel("again", testNow)
		require.ErrorIs(t, err, appointment.ErrInvalidTransition)
	})
}

func TestCompleteAndNoShow(t *testing.T) {
	t.Run("confirmed completes", func(t *testing.T) {
		appt := reconstructWithStatus(appointment.StatusConfirmed)
		require.NoError(t, appt.Complete(testNow))
		assert.Equal(t, appointment.StatusCompleted, appt.Status())
	})

	t.Run("confirmed can be marked no-show", func(t *testing.T) {
		appt := reconstructWithStatus(appointment.StatusConfirmed)
		require.NoError(t, appt.MarkNoShow(testNow))
		assert.Equal(t, appointment.StatusNoShow, appt.Status())
	})

	t.Run("completed is final", func(t *testing.T) {
		appt := reconstructWithStatus(appointment.StatusCompleted)
		require.ErrorIs(t, appt.MarkNoShow(testNow), appointment.ErrInvalidTransition)
	})
}

func TestReschedule(t *testing.T) {
	newTime := testNow.Add(72 * time.Hour)

	t.Run("pending moves and stays pending", func(t *testing.T) {
		appt := pendingAppointment(t)
		require.NoError(t, appt.Reschedule(newTime, testWindow, testNow))

		assert.True(t, appt.DateTime().Equal(newTime))
		assert.Equal(t, appointment.StatusPending, appt.Status())
	})

	t.Run("confirmed drops back to pending and clears notification stamps", func(t *testing.T) {
		sentAt := testNow.Add(-2 * time.Hour)
		appt := appointment.ReconstructAppointment(
			uuid.New(), uuid.New(), uuid.New(),
			testNow.Add(48*time.Hour), 60, appointment.StatusConfirmed,
			nil, nil, nil, nil,
			&sentAt, &sentAt,
			testNow.Add(-time.Hour), testNow.Add(-time.Hour),
		)

		require.NoError(t, appt.Reschedule(newTime, testWindow, testNow))

		assert.Equal(t, appointment.StatusPending, appt.Status())
		assert.Nil(t, appt.ConfirmationSentAt())
		assert.Nil(t, appt.ReminderSentAt())
		assert.True(t, appt.DateTime().Equal(newTime))
	})

	t.Run("terminal statuses cannot move", func(t *testing.T) {
		for _, status := range []appointment.Status{
			appointment.StatusCompleted,
			appointment.StatusCancelled,
			appointment.StatusNoShow,
		} {
			appt := reconstructWithStatus(status)
			err := appt.Reschedule(newTime, testWindow, testNow)
			require.ErrorIs(t, err, appointment.ErrInvalidTransition)
		}
	})

	t.Run("below minimum advance", func(t *testing.T) {
		appt := pendingAppointment(t)
		err := appt.Reschedule(testNow.Add(2*time.Hour), testWindow, testNow)
		require.ErrorIs(t, err, appointment.ErrTooSoon)
		assert.True(t, appt.DateTime().Equal(testNow.Add(48*time.Hour)), "rejected reschedule must not move the appointment")
	})

	t.Run("beyond maximum horizon", func(t *testing.T) {
		appt := pendingAppointment(t)
		err := appt.Reschedule(testNow.Add(120*24*time.Hour), testWindow, testNow)
		require.ErrorIs(t, err, appointment.ErrTooFarAhead)
	})
}

func TestBookingWindowValidate(t *testing.T) {
	cases := []struct {
		name     string
		dateTime time.Time
		window   appointment.BookingWindow
		errIs    error
	}{
		{
			name:     "inside the window",
			dateTime: testNow.Add(48 * time.Hour),
			window:   testWindow,
		},
		{
			name:     "exactly at minimum advance",
			dateTime: testNow.Add(24 * time.Hour),
			window:   testWindow,
		},
		{
			name:     "one minute under minimum advance",
			dateTime: testNow.Add(24*time.Hour - time.Minute),
			window:   testWindow,
			errIs:    appointment.ErrTooSoon,
		},
		{
			name:     "past the horizon",
			dateTime: testNow.Add(91 * 24 * time.Hour),
			window:   testWindow,
			errIs:    appointment.ErrTooFarAhead,
		},
		{
			name:     "zero max advance disables the horizon",
			dateTime: testNow.Add(365 * 24 * time.Hour),
			window:   appointment.BookingWindow{MinAdvance: 24 * time.Hour},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.window.Validate(c.dateTime, testNow)
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestNotesPatch(t *testing.T) {
	t.Run("empty patch is detectable", func(t *testing.T) {
		assert.True(t, appointment.NotesPatch{}.IsEmpty())
		assert.False(t, appointment.NotesPatch{AdminNotes: ptr.To("x")}.IsEmpty())
	})

	t.Run("applies only the set fields", func(t *testing.T) {
		appt := appointment.ReconstructAppointment(
			uuid.New(), uuid.New(), uuid.New(),
			testNow.Add(48*time.Hour), 60, appointment.StatusCompleted,
			ptr.To("old notes"), ptr.To("old admin"), ptr.To("old client"), nil,
			nil, nil,
			testNow.Add(-time.Hour), testNow.Add(-time.Hour),
		)

		appt.ApplyNotesPatch(appointment.NotesPatch{AdminNotes: ptr.To("session summary")}, testNow)

		require.NotNil(t, appt.Notes())
		assert.Equal(t, "old notes", *appt.Notes())
		require.NotNil(t, appt.AdminNotes())
		assert.Equal(t, "session summary", *appt.AdminNotes())
		require.NotNil(t, appt.ClientNotes())
		assert.Equal(t, "old client", *appt.ClientNotes())
		assert.True(t, appt.UpdatedAt().Equal(testNow))
	})

	t.Run("notes change in terminal status", func(t *testing.T) {
		appt := reconstructWithStatus(appointment.StatusCompleted)
		appt.ApplyNotesPatch(appointment.NotesPatch{Notes: ptr.To("follow-up booked")}, testNow)
		require.NotNil(t, appt.Notes())
		assert.Equal(t, "follow-up booked", *appt.Notes())
	})
}

func TestHistoryRecords(t *testing.T) {
	apptID := uuid.New()
	actor := appointment.Actor{ID: uuid.New(), Name: "Dana Admin"}

	t.Run("created record carries the initial status", func(t *testing.T) {
		rec, err := appointment.NewCreatedRecord(apptID, appointment.StatusPending, actor, testNow)
		require.NoError(t, err)

		assert.Equal(t, appointment.ActionCreated, rec.Action())
		require.NotNil(t, rec.NewStatus())
		assert.Equal(t, appointment.StatusPending, *rec.NewStatus())
		assert.Nil(t, rec.OldStatus())
		assert.Equal(t, actor.ID, rec.ActorID())
		assert.Equal(t, "Dana Admin", rec.ActorName())
	})

	t.Run("rescheduled record keeps both times", func(t *testing.T) {
		oldTime := testNow.Add(48 * time.Hour)
		newTime := testNow.Add(72 * time.Hour)
		rec, err := appointment.NewRescheduledRecord(apptID, oldTime, newTime, "client request", actor, testNow)
		require.NoError(t, err)

		require.NotNil(t, rec.OldDateTime())
		require.NotNil(t, rec.NewDateTime())
		assert.True(t, rec.OldDateTime().Equal(oldTime))
		assert.True(t, rec.NewDateTime().Equal(newTime))
		require.NotNil(t, rec.Reason())
		assert.Equal(t, "client request", *rec.Reason())
	})

	t.Run("status change record pairs old and new", func(t *testing.T) {
		rec, err := appointment.NewStatusChangeRecord(apptID, appointment.ActionCancelled,
			appointment.StatusConfirmed, appointment.StatusCancelled, "", actor, testNow)
		require.NoError(t, err)

		require.NotNil(t, rec.OldStatus())
		require.NotNil(t, rec.NewStatus())
		assert.Equal(t, appointment.StatusConfirmed, *rec.OldStatus())
		assert.Equal(t, appointment.StatusCancelled, *rec.NewStatus())
		assert.Nil(t, rec.Reason(), "blank reason stays nil")
	})

	t.Run("system actor is accepted", func(t *testing.T) {
		rec, err := appointment.NewStatusChangeRecord(apptID, appointment.ActionNoShow,
			appointment.StatusConfirmed, appointment.StatusNoShow, "missed without notice",
			appointment.SystemActor, testNow)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, rec.ActorID())
		assert.Equal(t, "system", rec.ActorName())
	})

	t.Run("actor name is required", func(t *testing.T) {
		_, err := appointment.NewNotesUpdatedRecord(apptID, appointment.Actor{ID: uuid.New()}, testNow)
		require.ErrorIs(t, err, appointment.ErrMissingActor)
	})
}
