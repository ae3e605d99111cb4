package api

import (
	"net/http"
	"strconv"
	"time"

	"counseling-portal/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	q queries.PolicyQueries
}

func NewPolicyHandler(q queries.PolicyQueries) *PolicyHandler {
	return &PolicyHandler{q: q}
}

// @Summary Assess cancellation
// @Description Preview the refund a cancellation at this moment would yield
// @Tags policies
// @Produce json
// @Param date_time query string true "Appointment time (RFC3339)"
// @Param price_cents query int true "Appointment price in cents"
// @Success 200 {object} queries.CancellationPolicyView
// @Failure 400 {object} map[string]string
// @Router /policies/cancellation [get]
func (h *PolicyHandler) AssessCancellation(c *gin.Context) {
	dateTime, priceCents, ok := policyParams(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.q.AssessCancellation(c.Request.Context(), dateTime, priceCents))
}

// @Summary Assess reschedule
// @Description Preview the fee a reschedule at this moment would carry and whether one is still allowed
// @Tags policies
// @Produce json
// @Param date_time query string true "Appointment time (RFC3339)"
// @Param price_cents query int true "Appointment price in cents"
// @Success 200 {object} queries.ReschedulePolicyView
// @Failure 400 {object} map[string]string
// @Router /policies/reschedule [get]
func (h *PolicyHandler) AssessReschedule(c *gin.Context) {
	dateTime, priceCents, ok := policyParams(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.q.AssessReschedule(c.Request.Context(), dateTime, priceCents))
}

func policyParams(c *gin.Context) (time.Time, int64, bool) {
	dateTime, err := time.Parse(time.RFC3339, c.Query("date_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date_time, expected RFC3339",
		})
		return time.Time{}, 0, false
	}

	priceCents, err := strconv.ParseInt(c.Query("price_cents"), 10, 64)
	if err != nil || priceCents < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing price_cents",
		})
		return time.Time{}, 0, false
	}

	return dateTime, priceCents, true
}
