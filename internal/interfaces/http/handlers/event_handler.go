package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/interfaces/http/middleware"
	"events-hub.backend/internal/interfaces/http/response"
	"events-hub.backend/internal/usecases"
	"events-hub.backend/pkg/utils"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventUsecase *usecases.EventUsecase
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventUsecase *usecases.EventUsecase) *EventHandler {
	return &EventHandler{
		eventUsecase: eventUsecase,
	}
}

// Create publishes a new event
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var input entities.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	event, err := h.eventUsecase.Create(c.Request.Context(), userID, role, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, eventView(event))
}

// Get returns a single event with its availability
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid event id"))
		return
	}

	event, err := h.eventUsecase.Get(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, eventView(event))
}

// Update modifies an event owned by the caller
// PATCH /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid event id"))
		return
	}

	var input entities.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	event, err := h.eventUsecase.Update(c.Request.Context(), userID, role, eventID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, eventView(event))
}

// Delete removes an event owned by the caller
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid event id"))
		return
	}

	if err := h.eventUsecase.Delete(c.Request.Context(), userID, role, eventID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "event deleted",
	})
}

// Search lists events matching the given filters
// GET /api/v1/events
func (h *EventHandler) Search(c *gin.Context) {
	var params entities.EventSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pagination := utils.GetPaginationParams(page, limit)

	events, total, err := h.eventUsecase.Search(c.Request.Context(), params, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]gin.H, 0, len(events))
	for _, event := range events {
		views = append(views, eventView(event))
	}

	response.Success(c, http.StatusOK, gin.H{
		"events":     views,
		"pagination": utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// ListMine lists the caller's own events with enrollment counts
// GET /api/v1/facilitator/events
func (h *EventHandler) ListMine(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	events, err := h.eventUsecase.ListMine(c.Request.Context(), userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]gin.H, 0, len(events))
	for _, event := range events {
		views = append(views, eventView(event))
	}

	response.Success(c, http.StatusOK, gin.H{
		"events": views,
	})
}

func callerIdentity(c *gin.Context) (uuid.UUID, entities.UserRole, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// eventView shapes an event for responses, deriving availability from the
// capacity and the active enrollment count.
func eventView(event *entities.Event) gin.H {
	view := gin.H{
		"id":               event.ID,
		"title":            event.Title,
		"description":      event.Description,
		"language":         event.Language,
		"location":         event.Location,
		"startsAt":         event.StartsAt,
		"endsAt":           event.EndsAt,
		"capacity":         event.Capacity,
		"createdBy":        event.CreatedBy,
		"totalEnrollments": event.TotalEnrollments,
		"availableSeats":   event.AvailableSeats(),
		"createdAt":        event.CreatedAt,
		"updatedAt":        event.UpdatedAt,
	}
	if event.CreatedByEmail != "" {
		view["createdByEmail"] = event.CreatedByEmail
	}
	return view
}
