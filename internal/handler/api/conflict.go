package api

import (
	"log/slog"
	"net/http"

	reqdto "counseling-portal/internal/handler/dto/request"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ConflictHandler struct {
	q queries.ConflictQueries
}

func NewConflictHandler(q queries.ConflictQueries) *ConflictHandler {
	return &ConflictHandler{q: q}
}

// @Summary Check conflict
// @Description Probe whether a candidate slot collides with appointments, business hours or blocked intervals; conflicts come with suggested alternatives
// @Tags conflicts
// @Accept json
// @Produce json
// @Param request body reqdto.CheckConflictRequest true "Candidate slot"
// @Success 200 {object} queries.ConflictResultView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /conflicts/check [post]
func (h *ConflictHandler) Check(c *gin.Context) {
	var req reqdto.CheckConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.q.Check(c.Request.Context(), queries.ConflictCandidate{
		DateTime:             req.DateTime,
		ServiceID:            req.ServiceID,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errs.Is(err, queries.ErrInvalidCandidate):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid candidate window",
			})
		default:
			slog.Error("conflict check failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
