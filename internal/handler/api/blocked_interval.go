package api

import (
	"log/slog"
	"net/http"
	"time"

	"counseling-portal/internal/domain/schedule"
	reqdto "counseling-portal/internal/handler/dto/request"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/commands"
	"counseling-portal/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlockedIntervalHandler struct {
	cmds commands.BlockedIntervalCommands
	q    queries.BlockedIntervalQueries
}

func NewBlockedIntervalHandler(cmds commands.BlockedIntervalCommands, q queries.BlockedIntervalQueries) *BlockedIntervalHandler {
	return &BlockedIntervalHandler{cmds: cmds, q: q}
}

// @Summary Create blocked interval
// @Description Block a time range against new bookings (holidays, maintenance, personal time)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBlockedIntervalRequest true "Blocked interval"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/blocked-intervals [post]
func (h *BlockedIntervalHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateBlockedIntervalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), commands.CreateBlockedIntervalRequest{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.GetReason(),
	}, actor)
	if err != nil {
		switch {
		case errs.Is(err, schedule.ErrInvalidInterval):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Interval start must be before end",
			})
		case errs.Is(err, schedule.ErrEmptyBlockReason):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Block reason cannot be empty",
			})
		default:
			slog.Error("create blocked interval failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": result.BlockedIntervalID})
}

// @Summary List blocked intervals
// @Description List blocked intervals overlapping a time range
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339, exclusive)"
// @Success 200 {array} queries.BlockedIntervalView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/blocked-intervals [get]
func (h *BlockedIntervalHandler) List(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing from timestamp",
		})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing to timestamp",
		})
		return
	}

	views, err := h.q.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		slog.Error("list blocked intervals failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked_intervals": views})
}

// @Summary Delete blocked interval
// @Description Remove a blocked interval, reopening its slots
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Blocked interval ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/blocked-intervals/{id} [delete]
func (h *BlockedIntervalHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid blocked interval ID",
		})
		return
	}

	if err := h.cmds.Delete(c.Request.Context(), id); err != nil {
		if errs.Is(err, commands.ErrBlockedIntervalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Blocked interval not found",
			})
			return
		}
		slog.Error("delete blocked interval failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
