//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/domain/user"
	"counseling-portal/internal/handler/api"
	reqdto "counseling-portal/internal/handler/dto/request"
	"counseling-portal/internal/usecase/commands"
	"counseling-portal/internal/usecase/queries"
	"counseling-portal/tests/common/httptest"
	"counseling-portal/tests/common/testutil"
	commandsmock "counseling-portal/tests/mock/commands"
	queriesmock "counseling-portal/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BlockedIntervalHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBlockedIntervalCommands
	mockQueries  *queriesmock.MockBlockedIntervalQueries
	handler      *api.BlockedIntervalHandler
	adminID      uuid.UUID
}

func (s *BlockedIntervalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBlockedIntervalCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBlockedIntervalQueries(s.mockCtrl)
	s.handler = api.NewBlockedIntervalHandler(s.mockCommands, s.mockQueries)
	s.adminID = uuid.New()

	// Mock authentication middleware for testing; these routes sit behind the
	// admin gate in the real router.
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.adminID)
		c.Set("user_role", user.RoleAdmin)
		c.Next()
	}

	s.router.POST("/admin/blocked-intervals", authMiddleware, s.handler.Create)
	s.router.GET("/admin/blocked-intervals", authMiddleware, s.handler.List)
	s.router.DELETE("/admin/blocked-intervals/:id", authMiddleware, s.handler.Delete)
}

func (s *BlockedIntervalHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBlockedIntervalHandlerSuite(t *testing.T) {
	suite.Run(t, new(BlockedIntervalHandlerTestSuite))
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BlockedIntervalHandlerTestSuite) TestCreate() {
	url := "/admin/blocked-intervals"

	start := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)
	reqBody := reqdto.CreateBlockedIntervalRequest{
		StartTime: start,
		EndTime:   end,
		Reason:    "社員研修のため休業",
	}
	createdID := uuid.New()

	s.Run("success: returns 201 Created with the new id", func() {
		expectedReq := commands.CreateBlockedIntervalRequest{
			StartTime: start,
			EndTime:   end,
			Reason:    "社員研修のため休業",
		}
		s.mockCommands.EXPECT().Create(gomock.Any(), expectedReq, commands.Actor{ID: s.adminID, Role: "admin"}).
			Return(&commands.CreateBlockedIntervalResult{BlockedIntervalID: createdID}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(createdID.String(), body["id"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: start_time (required)", mutate: testutil.Field("start_time", nil)},
			{name: "missing field: end_time (required)", mutate: testutil.Field("end_time", nil)},
			{name: "missing field: reason (required)", mutate: testutil.Field("reason", nil)},
			{name: "reason length invalid (501 chars)", mutate: testutil.Field("reason", strings.Repeat("a", 501))},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "inverted interval",
				commandsError:  schedule.ErrInvalidInterval,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Interval start must be before end",
			},
			{
				name:           "whitespace-only reason rejected by the domain",
				commandsError:  schedule.ErrEmptyBlockReason,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Block reason cannot be empty",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BlockedIntervalHandlerTestSuite) TestList() {
	baseURL := "/admin/blocked-intervals"
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	url := baseURL + "?from=2025-03-01T00:00:00Z&to=2025-04-01T00:00:00Z"

	views := []*queries.BlockedIntervalView{
		{
			ID:        uuid.New(),
			StartTime: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC),
			Reason:    "社員研修のため休業",
			CreatedBy: uuid.New(),
			CreatedAt: from,
		},
	}

	s.Run("success: returns blocked intervals in the range", func() {
		s.mockQueries.EXPECT().ListBetween(gomock.Any(), from, to).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		intervals, ok := response["blocked_intervals"].([]any)
		s.True(ok)
		s.Equal(1, len(intervals))
		first, ok := intervals[0].(map[string]any)
		s.True(ok)
		s.Equal("社員研修のため休業", first["reason"])
	})

	s.Run("error: 400 Bad Request on malformed query params", func() {
		testCases := []struct {
			name        string
			params      string
			expectedMsg string
		}{
			{name: "missing from", params: "?to=2025-04-01T00:00:00Z", expectedMsg: "Invalid or missing from timestamp"},
			{name: "invalid to", params: "?from=2025-03-01T00:00:00Z&to=next-month", expectedMsg: "Invalid or missing to timestamp"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL+tc.params, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: returns 500 Internal Server Error on query error", func() {
		s.mockQueries.EXPECT().ListBetween(gomock.Any(), from, to).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *BlockedIntervalHandlerTestSuite) TestDelete() {
	intervalID := uuid.New()
	url := "/admin/blocked-intervals/" + intervalID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), intervalID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/admin/blocked-intervals/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid blocked interval ID")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "blocked interval not found",
				commandsError:  commands.ErrBlockedIntervalNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Blocked interval not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Delete(gomock.Any(), intervalID).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
