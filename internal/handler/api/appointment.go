package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"counseling-portal/internal/domain/appointment"
	reqdto "counseling-portal/internal/handler/dto/request"
	resdto "counseling-portal/internal/handler/dto/response"
	"counseling-portal/internal/handler/middleware"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/commands"
	"counseling-portal/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	cmds commands.AppointmentCommands
	q    queries.AppointmentQueries
}

func NewAppointmentHandler(cmds commands.AppointmentCommands, q queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{cmds: cmds, q: q}
}

// @Summary Book appointment
// @Description Book a new appointment in an open slot
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookAppointmentRequest true "Booking request"
// @Success 201 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req reqdto.BookAppointmentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.cmds.Book(c.Request.Context(), commands.BookAppointmentRequest{
		ServiceID:   req.ServiceID,
		ClientID:    req.OnBehalfOf(),
		DateTime:    req.DateTime,
		ClientNotes: req.GetClientNotes(),
	}, actor)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMutationResult(result))
}

// @Summary Get appointment
// @Description Get an appointment by ID (clients can only access their own)
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID",
		})
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor.ID, actor.Role, id)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// @Summary List appointments
// @Description List appointments with date range and status filters, keyset paginated. Clients see only their own.
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param from query string false "Lower bound (RFC3339)"
// @Param to query string false "Upper bound (RFC3339, exclusive)"
// @Param client_id query string false "Filter by client (admin only)"
// @Param status query string false "Filter by status"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.AppointmentListItemResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var filter queries.AppointmentListFilter
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to timestamp"})
			return
		}
		filter.To = &t
	}
	if v := c.Query("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
			return
		}
		filter.ClientID = &id
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.List(c.Request.Context(), actor.ID, actor.Role, filter, cursor, limit)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrInvalidCursor):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		case errs.Is(err, queries.ErrAppointmentAccess):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	resp := gin.H{"appointments": resdto.FromAppointmentList(items)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Appointment history
// @Description List the audit trail of an appointment, newest first
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {array} resdto.HistoryEntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /appointments/{id}/history [get]
func (h *AppointmentHandler) GetHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID",
		})
		return
	}

	views, err := h.q.GetHistory(c.Request.Context(), actor.ID, actor.Role, id)
	if err != nil {
		h.respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": resdto.FromHistoryList(views)})
}

// @Summary Reschedule appointment
// @Description Move an appointment to a new slot; rejected once the reschedule window has closed
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body reqdto.RescheduleAppointmentRequest true "Reschedule request"
// @Success 200 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /appointments/{id}/reschedule [post]
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor, id, req, ok := bindMutation[reqdto.RescheduleAppointmentRequest](c)
	if !ok {
		return
	}

	result, err := h.cmds.Reschedule(c.Request.Context(), id, commands.RescheduleAppointmentRequest{
		NewDateTime: req.NewDateTime,
		Reason:      req.GetReason(),
	}, actor)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMutationResult(result))
}

// @Summary Cancel appointment
// @Description Cancel an appointment with a reason; refund terms follow the cancellation policy
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body reqdto.CancelAppointmentRequest true "Cancel request"
// @Success 200 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor, id, req, ok := bindMutation[reqdto.CancelAppointmentRequest](c)
	if !ok {
		return
	}

	result, err := h.cmds.Cancel(c.Request.Context(), id, commands.CancelAppointmentRequest{
		Reason: req.GetReason(),
	}, actor)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMutationResult(result))
}

// @Summary Update appointment notes
// @Description Patch notes fields; clients may only touch client_notes
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body reqdto.UpdateNotesRequest true "Notes patch"
// @Success 200 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /appointments/{id}/notes [patch]
func (h *AppointmentHandler) UpdateNotes(c *gin.Context) {
	actor, id, req, ok := bindMutation[reqdto.UpdateNotesRequest](c)
	if !ok {
		return
	}

	result, err := h.cmds.UpdateNotes(c.Request.Context(), id, commands.UpdateNotesRequest{
		Notes:       req.Notes,
		AdminNotes:  req.AdminNotes,
		ClientNotes: req.ClientNotes,
	}, actor)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMutationResult(result))
}

// @Summary Confirm appointment
// @Description Confirm a pending appointment and dispatch the confirmation notice
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id}/confirm [post]
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.cmds.Confirm)
}

// @Summary Complete appointment
// @Description Mark a confirmed appointment as completed
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.cmds.Complete)
}

// @Summary Mark no-show
// @Description Mark a confirmed appointment as a no-show
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id}/no-show [post]
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.cmds.MarkNoShow)
}

// @Summary Sweep no-shows
// @Description Mark every active appointment whose end time has passed as a no-show
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/no-show-sweep [post]
func (h *AppointmentHandler) SweepNoShows(c *gin.Context) {
	result, err := h.cmds.SweepNoShows(c.Request.Context())
	if err != nil {
		slog.Error("no-show sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}

// @Summary Send reminders
// @Description Dispatch a reminder for every confirmed appointment starting within the lead window
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ReminderSweepResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/reminder-sweep [post]
func (h *AppointmentHandler) SendReminders(c *gin.Context) {
	result, err := h.cmds.SendReminders(c.Request.Context())
	if err != nil {
		slog.Error("reminder sweep failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReminderResult(result))
}

func (h *AppointmentHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID, actor commands.Actor) (*commands.MutationResult, error)) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID",
		})
		return
	}

	result, err := op(c.Request.Context(), id, actor)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMutationResult(result))
}

// respondMutationError maps command failures onto the HTTP error contract.
// Conflict rejections carry the full conflict report so callers can render
// the suggested alternatives without a second round trip.
func (h *AppointmentHandler) respondMutationError(c *gin.Context, err error) {
	var slotErr *commands.SlotConflictError
	var transErr *appointment.TransitionError

	switch {
	case errors.As(err, &slotErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "Requested slot is not available",
			"conflict": slotErr.Result,
		})
	case errs.Is(err, commands.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Requested slot is not available",
		})
	case errs.Is(err, commands.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Appointment was modified by another request, reload and retry",
		})
	case errors.As(err, &transErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Appointment can no longer be modified",
			"current_status": string(transErr.From),
		})
	case errs.Is(err, appointment.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Appointment can no longer be modified",
		})
	case errs.Is(err, commands.ErrAppointmentNotFoundWrite):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Appointment not found",
		})
	case errs.Is(err, commands.ErrServiceNotFoundWrite):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Service not found",
		})
	case errs.Is(err, commands.ErrAppointmentNotOwned), errs.Is(err, commands.ErrNotesForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	case errs.Is(err, commands.ErrServiceInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Service is not bookable",
		})
	case errs.Is(err, commands.ErrRescheduleWindowClosed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Appointment can no longer be rescheduled",
		})
	case errs.Is(err, commands.ErrEmptyNotesPatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Notes update carries no fields",
		})
	case errs.Is(err, appointment.ErrTooSoon):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Appointment is below the minimum advance notice",
		})
	case errs.Is(err, appointment.ErrTooFarAhead):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Appointment is beyond the maximum booking horizon",
		})
	case errs.Is(err, appointment.ErrEmptyCancelReason):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Cancellation reason cannot be empty",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *AppointmentHandler) respondQueryError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, queries.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Appointment not found",
		})
	case errs.Is(err, queries.ErrAppointmentAccess):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// currentActor pulls the authenticated principal set by the auth middleware.
func currentActor(c *gin.Context) (commands.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return commands.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return commands.Actor{ID: userID, Role: string(role)}, true
}

// bindMutation covers the shared prologue of the body-carrying mutation
// endpoints: actor, path ID, JSON body.
func bindMutation[T any](c *gin.Context) (commands.Actor, uuid.UUID, T, bool) {
	var req T
	actor, ok := currentActor(c)
	if !ok {
		return actor, uuid.Nil, req, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID",
		})
		return actor, uuid.Nil, req, false
	}
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return actor, uuid.Nil, req, false
	}
	return actor, id, req, true
}
