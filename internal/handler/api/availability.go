package api

import (
	"log/slog"
	"net/http"
	"time"

	"counseling-portal/internal/domain/schedule"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	q   queries.AvailabilityQueries
	loc *time.Location
}

func NewAvailabilityHandler(q queries.AvailabilityQueries, rules schedule.Rules) *AvailabilityHandler {
	return &AvailabilityHandler{q: q, loc: rules.Hours.Location()}
}

// @Summary Day availability
// @Description List every candidate slot of a day for a service, with booked and blocked slots marked unavailable
// @Tags availability
// @Produce json
// @Param date query string true "Calendar day (YYYY-MM-DD)"
// @Param service_id query string true "Service ID"
// @Success 200 {array} queries.TimeSlotView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) GetDay(c *gin.Context) {
	// Parsed in the practice timezone so the named calendar day survives the
	// location conversion inside the slot computation.
	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, expected YYYY-MM-DD",
		})
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing service_id",
		})
		return
	}

	slots, err := h.q.ComputeDay(c.Request.Context(), day, serviceID)
	if err != nil {
		if errs.Is(err, queries.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
			return
		}
		slog.Error("availability computation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
