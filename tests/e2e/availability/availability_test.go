//go:build e2e

package availability_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"counseling-portal/internal/domain/user"
	"counseling-portal/internal/handler/dto/request"
	"counseling-portal/internal/usecase/queries"
	"counseling-portal/tests/common/authtest"
	"counseling-portal/tests/common/dbtest"
	"counseling-portal/tests/common/httptest"
	"counseling-portal/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	availabilityURL       = "/api/v1/availability"
	conflictCheckURL      = "/api/v1/conflicts/check"
	cancellationPolicyURL = "/api/v1/policies/cancellation"
	reschedulePolicyURL   = "/api/v1/policies/reschedule"
	blockedIntervalsURL   = "/api/v1/admin/blocked-intervals"
	blockedIntervalURL    = "/api/v1/admin/blocked-intervals/%s"
)

var jst = time.FixedZone("JST", 9*60*60)

// openDay returns a business day daysAhead calendar days out, shifted past
// weekends.
func openDay(daysAhead int) time.Time {
	day := time.Now().In(jst).AddDate(0, 0, daysAhead)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func nextSunday() time.Time {
	day := time.Now().In(jst).AddDate(0, 0, 2)
	for day.Weekday() != time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, jst)
}

func dayGridURL(day time.Time, serviceID uuid.UUID) string {
	return fmt.Sprintf("%s?date=%s&service_id=%s", availabilityURL, day.Format("2006-01-02"), serviceID)
}

// rfc3339Param escapes a timestamp for use in a query string; a raw +09:00
// offset would decode as a space and fail parsing server-side.
func rfc3339Param(t time.Time) string {
	return url.QueryEscape(t.Format(time.RFC3339))
}

type slotsBody struct {
	Slots []queries.TimeSlotView `json:"slots"`
}

type blockedListBody struct {
	BlockedIntervals []queries.BlockedIntervalView `json:"blocked_intervals"`
}

type AvailabilitySuite struct {
	e2e.SharedSuite
}

func (s *AvailabilitySuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestAvailabilitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AvailabilitySuite))
}

func (s *AvailabilitySuite) counselingService() uuid.UUID {
	return dbtest.CreateTestService(s.T(), s.DB, "Individual Counseling", 60, 15000)
}

func (s *AvailabilitySuite) couplesService() uuid.UUID {
	return dbtest.CreateTestService(s.T(), s.DB, "Couples Counseling", 90, 22500)
}

func (s *AvailabilitySuite) dayGrid(day time.Time, serviceID uuid.UUID) []queries.TimeSlotView {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, dayGridURL(day, serviceID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body slotsBody
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
	return body.Slots
}

// unavailableByClock indexes the shaded slots of a grid by JST wall clock.
func unavailableByClock(slots []queries.TimeSlotView) map[string]string {
	shaded := map[string]string{}
	for _, slot := range slots {
		if !slot.Available {
			shaded[slot.DateTime.In(jst).Format("15:04")] = slot.Reason
		}
	}
	return shaded
}

// =============================================================================
// TestDayAvailability - Day grid API tests
// =============================================================================

func (s *AvailabilitySuite) TestDayAvailability() {
	s.Run("Normal case: a clear business day lists every candidate slot", func() {
		t := s.T()

		day := openDay(3)
		slots := s.dayGrid(day, s.counselingService())

		require.Len(t, slots, 14, "5 morning starts plus 9 afternoon starts")
		require.WithinDuration(t, at(day, 9, 0), slots[0].DateTime, time.Second)
		require.WithinDuration(t, at(day, 17, 0), slots[13].DateTime, time.Second)
		for _, slot := range slots {
			require.True(t, slot.Available)
			require.Empty(t, slot.Reason)
			require.Equal(t, 60, slot.DurationMinutes)
		}
	})

	s.Run("Normal case: bookings shade every slot they touch", func() {
		t := s.T()

		clientID := dbtest.CreateTestUser(t, s.DB, "gridclient@example.com", string(user.RoleClient))
		serviceID := s.counselingService()
		day := openDay(3)
		dbtest.CreateTestAppointment(t, s.DB, serviceID, clientID, at(day, 10, 0), 60, "pending")

		slots := s.dayGrid(day, serviceID)
		require.Len(t, slots, 14)
		require.Equal(t, map[string]string{
			"09:30": "booked",
			"10:00": "booked",
			"10:30": "booked",
		}, unavailableByClock(slots), "every start whose hour would overlap the booking is shaded")
	})

	s.Run("Normal case: blocked intervals shade their slots", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "gridadmin@example.com", string(user.RoleAdmin))
		serviceID := s.counselingService()
		day := openDay(3)
		dbtest.CreateTestBlockedInterval(t, s.DB, at(day, 13, 0), at(day, 15, 0), "staff meeting", adminID)

		slots := s.dayGrid(day, serviceID)
		require.Len(t, slots, 14)
		require.Equal(t, map[string]string{
			"13:00": "blocked",
			"13:30": "blocked",
			"14:00": "blocked",
			"14:30": "blocked",
		}, unavailableByClock(slots))
	})

	s.Run("Normal case: cancelled bookings release their slots", func() {
		t := s.T()

		clientID := dbtest.CreateTestUser(t, s.DB, "released@example.com", string(user.RoleClient))
		serviceID := s.counselingService()
		day := openDay(3)
		dbtest.CreateTestAppointment(t, s.DB, serviceID, clientID, at(day, 10, 0), 60, "cancelled")

		slots := s.dayGrid(day, serviceID)
		require.Len(t, slots, 14)
		require.Empty(t, unavailableByClock(slots), "a cancelled booking holds no calendar space")
	})

	s.Run("Normal case: slot math follows the service duration", func() {
		t := s.T()

		day := openDay(3)
		slots := s.dayGrid(day, s.couplesService())

		require.Len(t, slots, 12, "a 90 minute session fits 4 morning starts and 8 afternoon starts")
		for _, slot := range slots {
			require.Equal(t, 90, slot.DurationMinutes)
		}
	})

	s.Run("Normal case: closed days have no slots", func() {
		t := s.T()

		slots := s.dayGrid(nextSunday(), s.counselingService())
		require.Empty(t, slots)
	})

	s.Run("Error case: unknown service", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, dayGridURL(openDay(3), uuid.New()), nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: inactive services expose no grid", func() {
		t := s.T()

		serviceID := dbtest.CreateTestService(t, s.DB, "Retired Program", 60, 10000)
		_, err := s.DB.Exec(t.Context(), "UPDATE services SET active = false WHERE id = $1", serviceID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, dayGridURL(openDay(3), serviceID), nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: malformed date", func() {
		t := s.T()

		u := fmt.Sprintf("%s?date=tomorrow&service_id=%s", availabilityURL, s.counselingService())
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "YYYY-MM-DD")
	})
}

// =============================================================================
// TestConflictCheck - Conflict probe API tests
// =============================================================================

func (s *AvailabilitySuite) TestConflictCheck() {
	s.Run("Normal case: a free slot reports no conflict", func() {
		t := s.T()

		reqBody := request.CheckConflictRequest{
			DateTime:  at(openDay(3), 10, 0),
			ServiceID: s.counselingService(),
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got queries.ConflictResultView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))

		want := queries.ConflictResultView{
			HasConflict:             false,
			ConflictType:            "NONE",
			ConflictingAppointments: []queries.ActiveAppointmentWindow{},
			SuggestedAlternatives:   []queries.TimeSlotView{},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("conflict report mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: an occupied slot reports the booking and alternatives", func() {
		t := s.T()

		clientID := dbtest.CreateTestUser(t, s.DB, "occupier@example.com", string(user.RoleClient))
		serviceID := s.counselingService()
		day := openDay(3)
		apptID := dbtest.CreateTestAppointment(t, s.DB, serviceID, clientID, at(day, 10, 0), 60, "confirmed")

		reqBody := request.CheckConflictRequest{DateTime: at(day, 10, 0), ServiceID: serviceID}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got queries.ConflictResultView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
		require.True(t, got.HasConflict)
		require.Equal(t, "APPOINTMENT", got.ConflictType)
		require.Equal(t, "Requested time conflicts with 1 existing appointment(s)", got.Reason)
		require.Len(t, got.ConflictingAppointments, 1)
		require.Equal(t, apptID, got.ConflictingAppointments[0].ID)

		require.Len(t, got.SuggestedAlternatives, 6)
		require.WithinDuration(t, at(day, 11, 0), got.SuggestedAlternatives[0].DateTime, time.Second,
			"the first free start after a 10:00 booking is 11:00")
		for _, alt := range got.SuggestedAlternatives {
			require.True(t, alt.Available)
		}
	})

	s.Run("Normal case: a blocked slot reports the block", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "blocker@example.com", string(user.RoleAdmin))
		serviceID := s.counselingService()
		day := openDay(3)
		dbtest.CreateTestBlockedInterval(t, s.DB, at(day, 13, 0), at(day, 15, 0), "training", adminID)

		reqBody := request.CheckConflictRequest{DateTime: at(day, 13, 30), ServiceID: serviceID}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got queries.ConflictResultView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
		require.True(t, got.HasConflict)
		require.Equal(t, "BLOCKED", got.ConflictType)
		require.Equal(t, "Requested time falls within a blocked period", got.Reason)
		require.Empty(t, got.ConflictingAppointments)
		require.NotEmpty(t, got.SuggestedAlternatives)
		require.WithinDuration(t, at(day, 15, 0), got.SuggestedAlternatives[0].DateTime, time.Second,
			"the first suggestion starts where the block ends")
	})

	s.Run("Normal case: closed days report out-of-hours", func() {
		t := s.T()

		sunday := nextSunday()
		reqBody := request.CheckConflictRequest{DateTime: at(sunday, 10, 0), ServiceID: s.counselingService()}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got queries.ConflictResultView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
		require.True(t, got.HasConflict)
		require.Equal(t, "OUTSIDE_HOURS", got.ConflictType)
		require.Equal(t, "Requested time is outside business hours", got.Reason)
		require.NotEmpty(t, got.SuggestedAlternatives)
		require.WithinDuration(t, at(sunday.AddDate(0, 0, 1), 9, 0), got.SuggestedAlternatives[0].DateTime, time.Second,
			"suggestions resume on the next open day")
	})

	s.Run("Normal case: a reschedule probe skips its own booking", func() {
		t := s.T()

		clientID := dbtest.CreateTestUser(t, s.DB, "prober@example.com", string(user.RoleClient))
		serviceID := s.counselingService()
		day := openDay(3)
		apptID := dbtest.CreateTestAppointment(t, s.DB, serviceID, clientID, at(day, 10, 0), 60, "confirmed")

		reqBody := request.CheckConflictRequest{
			DateTime:             at(day, 10, 30),
			ServiceID:            serviceID,
			ExcludeAppointmentID: &apptID,
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got queries.ConflictResultView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
		require.False(t, got.HasConflict, "the probe must ignore the appointment being moved")
		require.Equal(t, "NONE", got.ConflictType)
	})

	s.Run("Error case: unknown service", func() {
		t := s.T()

		reqBody := request.CheckConflictRequest{DateTime: at(openDay(3), 10, 0), ServiceID: uuid.New()}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, reqBody, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: missing fields fail validation", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictCheckURL, map[string]any{}, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// TestPolicyQuotes - Cancellation and reschedule quote API tests
// =============================================================================

func (s *AvailabilitySuite) TestPolicyQuotes() {
	cancellationQuote := func(dateTime time.Time, priceCents int64) *queries.CancellationPolicyView {
		t := s.T()
		u := fmt.Sprintf("%s?date_time=%s&price_cents=%d", cancellationPolicyURL, rfc3339Param(dateTime), priceCents)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view queries.CancellationPolicyView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		return &view
	}
	rescheduleQuote := func(dateTime time.Time, priceCents int64) *queries.ReschedulePolicyView {
		t := s.T()
		u := fmt.Sprintf("%s?date_time=%s&price_cents=%d", reschedulePolicyURL, rfc3339Param(dateTime), priceCents)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var view queries.ReschedulePolicyView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		return &view
	}

	s.Run("Normal case: generous notice earns a full refund", func() {
		t := s.T()

		view := cancellationQuote(time.Now().Add(73*time.Hour), 15000)
		require.Equal(t, 73, view.HoursUntil)
		require.Equal(t, int64(15000), view.RefundCents)
		require.Equal(t, 100, view.RefundPercentage)
		require.Equal(t, "low", view.Severity)
		require.Equal(t, "Cancelling now qualifies for a full refund.", view.Message)
	})

	s.Run("Normal case: mid notice splits the refund", func() {
		t := s.T()

		view := cancellationQuote(time.Now().Add(30*time.Hour), 15000)
		require.Equal(t, 30, view.HoursUntil)
		require.Equal(t, int64(7500), view.RefundCents)
		require.Equal(t, 50, view.RefundPercentage)
		require.Equal(t, "medium", view.Severity)
		require.Equal(t, "Cancelling now refunds 50% of the service price.", view.Message)
	})

	s.Run("Normal case: short notice forfeits the refund", func() {
		t := s.T()

		view := cancellationQuote(time.Now().Add(3*time.Hour), 15000)
		require.Equal(t, 3, view.HoursUntil)
		require.Equal(t, int64(0), view.RefundCents)
		require.Equal(t, 0, view.RefundPercentage)
		require.Equal(t, "high", view.Severity)
		require.Equal(t, "Cancelling this close to the appointment is non-refundable.", view.Message)
	})

	s.Run("Normal case: reschedule fees grow as notice shrinks", func() {
		t := s.T()

		generous := rescheduleQuote(time.Now().Add(73*time.Hour), 15000)
		require.Equal(t, int64(0), generous.FeeCents)
		require.True(t, generous.CanReschedule)
		require.Equal(t, "Rescheduling now is free of charge.", generous.Message)

		mid := rescheduleQuote(time.Now().Add(30*time.Hour), 15000)
		require.Equal(t, int64(3750), mid.FeeCents)
		require.Equal(t, 25, mid.FeePercentage)
		require.True(t, mid.CanReschedule)
		require.Equal(t, "Rescheduling now incurs a fee of 25% of the service price.", mid.Message)

		short := rescheduleQuote(time.Now().Add(3*time.Hour), 15000)
		require.Equal(t, int64(7500), short.FeeCents)
		require.Equal(t, 50, short.FeePercentage)
		require.True(t, short.CanReschedule)
	})

	s.Run("Normal case: the reschedule floor closes inside one hour", func() {
		t := s.T()

		view := rescheduleQuote(time.Now().Add(30*time.Minute), 15000)
		require.False(t, view.CanReschedule)
		require.Equal(t, "Appointments within 1 hour(s) can no longer be rescheduled.", view.Message)
	})

	s.Run("Normal case: past appointments quote nothing", func() {
		t := s.T()

		cancel := cancellationQuote(time.Now().Add(-2*time.Hour), 15000)
		require.Equal(t, int64(0), cancel.RefundCents)
		require.Equal(t, "This appointment time has passed; no refund applies.", cancel.Message)

		resched := rescheduleQuote(time.Now().Add(-2*time.Hour), 15000)
		require.False(t, resched.CanReschedule)
		require.Equal(t, int64(15000), resched.FeeCents, "past appointments sit in the full-fee tier")
		require.Equal(t, "This appointment time has passed and can no longer be rescheduled.", resched.Message)
	})

	s.Run("Error case: malformed date_time", func() {
		t := s.T()

		u := cancellationPolicyURL + "?date_time=tomorrow&price_cents=15000"
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "date_time")
	})

	s.Run("Error case: negative price", func() {
		t := s.T()

		u := fmt.Sprintf("%s?date_time=%s&price_cents=-100", reschedulePolicyURL, rfc3339Param(time.Now().Add(48*time.Hour)))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, u, nil, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "price_cents")
	})
}

// =============================================================================
// TestBlockedIntervalAdministration - Blocked interval API tests
// =============================================================================

func (s *AvailabilitySuite) TestBlockedIntervalAdministration() {
	s.Run("Normal case: a block shades the grid until deleted", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "scheduler@example.com", string(user.RoleAdmin))
		token := authtest.LoginUser(t, s.Router, "scheduler@example.com", "password123")
		serviceID := s.counselingService()
		day := openDay(3)

		reqBody := request.CreateBlockedIntervalRequest{
			StartTime: at(day, 13, 0),
			EndTime:   at(day, 15, 0),
			Reason:    "facility maintenance",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, blockedIntervalsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created map[string]string
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		blockID := created["id"]
		require.NotEmpty(t, blockID)

		slots := s.dayGrid(day, serviceID)
		require.Len(t, unavailableByClock(slots), 4, "the two hour block shades four starts")

		listURL := fmt.Sprintf("%s?from=%s&to=%s", blockedIntervalsURL,
			rfc3339Param(at(day, 0, 0)), rfc3339Param(at(day.AddDate(0, 0, 1), 0, 0)))
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, listURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var listed blockedListBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &listed))
		require.Len(t, listed.BlockedIntervals, 1)
		require.Equal(t, "facility maintenance", listed.BlockedIntervals[0].Reason)
		require.Equal(t, adminID, listed.BlockedIntervals[0].CreatedBy)

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(blockedIntervalURL, blockID), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		slots = s.dayGrid(day, serviceID)
		require.Empty(t, unavailableByClock(slots), "deleting the block reopens its slots")
	})

	s.Run("Normal case: the range filter scopes the list", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "ranger@example.com", string(user.RoleAdmin))
		token := authtest.LoginUser(t, s.Router, "ranger@example.com", "password123")

		near := openDay(3)
		far := openDay(10)
		dbtest.CreateTestBlockedInterval(t, s.DB, at(near, 9, 0), at(near, 10, 0), "near block", adminID)
		dbtest.CreateTestBlockedInterval(t, s.DB, at(far, 9, 0), at(far, 10, 0), "far block", adminID)

		listURL := fmt.Sprintf("%s?from=%s&to=%s", blockedIntervalsURL,
			rfc3339Param(at(near, 0, 0)), rfc3339Param(at(near.AddDate(0, 0, 1), 0, 0)))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, listURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var listed blockedListBody
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &listed))
		require.Len(t, listed.BlockedIntervals, 1)
		require.Equal(t, "near block", listed.BlockedIntervals[0].Reason)
	})

	s.Run("Error case: an inverted interval is rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "clumsy@example.com", string(user.RoleAdmin))
		token := authtest.LoginUser(t, s.Router, "clumsy@example.com", "password123")
		day := openDay(3)

		reqBody := request.CreateBlockedIntervalRequest{
			StartTime: at(day, 15, 0),
			EndTime:   at(day, 13, 0),
			Reason:    "typo",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, blockedIntervalsURL, reqBody, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "before end")
	})

	s.Run("Error case: a whitespace reason is rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "vague@example.com", string(user.RoleAdmin))
		token := authtest.LoginUser(t, s.Router, "vague@example.com", "password123")
		day := openDay(3)

		reqBody := request.CreateBlockedIntervalRequest{
			StartTime: at(day, 13, 0),
			EndTime:   at(day, 15, 0),
			Reason:    "   ",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, blockedIntervalsURL, reqBody, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "reason")
	})

	s.Run("Error case: deleting an unknown block", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "cleaner@example.com", string(user.RoleAdmin))
		token := authtest.LoginUser(t, s.Router, "cleaner@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(blockedIntervalURL, uuid.New()), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: clients cannot manage blocks", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "hopeful@example.com", string(user.RoleClient))
		token := authtest.LoginUser(t, s.Router, "hopeful@example.com", "password123")
		day := openDay(3)

		reqBody := request.CreateBlockedIntervalRequest{
			StartTime: at(day, 13, 0),
			EndTime:   at(day, 15, 0),
			Reason:    "my vacation",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, blockedIntervalsURL, reqBody, token)
		require.Equal(t, http.StatusForbidden, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s?from=%s&to=%s", blockedIntervalsURL, rfc3339Param(at(day, 0, 0)), rfc3339Param(at(day, 23, 0))), nil, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		day := openDay(3)
		reqBody := request.CreateBlockedIntervalRequest{
			StartTime: at(day, 13, 0),
			EndTime:   at(day, 15, 0),
			Reason:    "anonymous block",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, blockedIntervalsURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
