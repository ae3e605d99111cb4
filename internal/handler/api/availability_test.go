//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/handler/api"
	"counseling-portal/internal/usecase/queries"
	"counseling-portal/tests/common/httptest"
	queriesmock "counseling-portal/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	handler     *api.AvailabilityHandler
	loc         *time.Location
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)

	// West-of-UTC practice timezone: the date query param must still name
	// this calendar day after parsing.
	hours, err := schedule.NewBusinessHours("America/New_York", []int{1, 2, 3, 4, 5}, []string{"09:00-18:00"})
	s.Require().NoError(err)
	rules, err := schedule.NewRules(hours, 30, 24*time.Hour, 90*24*time.Hour, 6, 5, 24*time.Hour)
	s.Require().NoError(err)
	s.loc = hours.Location()
	s.handler = api.NewAvailabilityHandler(s.mockQueries, rules)

	// Availability is browsable without a session
	s.router.GET("/availability", s.handler.GetDay)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func sameInstant(want time.Time) gomock.Matcher {
	return gomock.Cond(func(got time.Time) bool { return got.Equal(want) })
}

// ================================================================================
// TestGetDay
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestGetDay() {
	serviceID := uuid.New()
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, s.loc)
	url := "/availability?date=2025-03-12&service_id=" + serviceID.String()

	slots := []queries.TimeSlotView{
		{DateTime: day.Add(9 * time.Hour), DurationMinutes: 60, Available: true},
		{DateTime: day.Add(9*time.Hour + 30*time.Minute), DurationMinutes: 60, Available: false, Reason: "already booked"},
		{DateTime: day.Add(10 * time.Hour), DurationMinutes: 60, Available: false, Reason: "blocked: staff meeting"},
	}

	s.Run("success: returns the slot grid for the day", func() {
		s.mockQueries.EXPECT().ComputeDay(gomock.Any(), sameInstant(day), serviceID).
			Return(slots, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		returned, ok := response["slots"].([]any)
		s.True(ok)
		s.Equal(len(slots), len(returned))

		first, ok := returned[0].(map[string]any)
		s.True(ok)
		s.Equal(true, first["available"])
		booked, ok := returned[1].(map[string]any)
		s.True(ok)
		s.Equal(false, booked["available"])
		s.Equal("already booked", booked["reason"])
	})

	s.Run("success: date names the practice-timezone day, not the UTC one", func() {
		s.mockQueries.EXPECT().ComputeDay(gomock.Any(), gomock.Cond(func(got time.Time) bool {
			y, m, d := got.In(s.loc).Date()
			return y == 2025 && m == time.March && d == 12
		}), serviceID).
			Return([]queries.TimeSlotView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: closed day yields an empty grid", func() {
		sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, s.loc)
		sundayURL := "/availability?date=2025-03-16&service_id=" + serviceID.String()

		s.mockQueries.EXPECT().ComputeDay(gomock.Any(), sameInstant(sunday), serviceID).
			Return([]queries.TimeSlotView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, sundayURL, nil, "")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		returned, ok := response["slots"].([]any)
		s.True(ok)
		s.Empty(returned)
	})

	s.Run("error: 400 Bad Request on malformed query params", func() {
		testCases := []struct {
			name        string
			params      string
			expectedMsg string
		}{
			{name: "missing date", params: "?service_id=" + serviceID.String(), expectedMsg: "Invalid or missing date"},
			{name: "wrong date layout", params: "?date=2025/03/12&service_id=" + serviceID.String(), expectedMsg: "Invalid or missing date"},
			{name: "missing service_id", params: "?date=2025-03-12", expectedMsg: "Invalid or missing service_id"},
			{name: "invalid service_id", params: "?date=2025-03-12&service_id=not-a-uuid", expectedMsg: "Invalid or missing service_id"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/availability"+tc.params, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.expectedMsg)
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "service not found",
				queriesError:   queries.ErrServiceNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Service not found",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().ComputeDay(gomock.Any(), sameInstant(day), serviceID).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
