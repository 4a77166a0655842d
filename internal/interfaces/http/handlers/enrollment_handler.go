package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"events-hub.backend/internal/domain/entities"
	domainerrors "events-hub.backend/internal/domain/errors"
	"events-hub.backend/internal/interfaces/http/response"
	"events-hub.backend/internal/usecases"
)

// EnrollmentHandler handles enrollment endpoints
type EnrollmentHandler struct {
	enrollmentUsecase *usecases.EnrollmentUsecase
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentUsecase *usecases.EnrollmentUsecase) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentUsecase: enrollmentUsecase,
	}
}

// Enroll registers the caller for an event
// POST /api/v1/seeker/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var input entities.EnrollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	enrollment, err := h.enrollmentUsecase.Enroll(c.Request.Context(), userID, role, input.EventID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, enrollmentView(enrollment))
}

// Cancel cancels one of the caller's enrollments
// DELETE /api/v1/seeker/enrollments/:id
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid enrollment id"))
		return
	}

	enrollment, err := h.enrollmentUsecase.Cancel(c.Request.Context(), userID, role, enrollmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, enrollmentView(enrollment))
}

// List returns the caller's enrollments, optionally filtered by time
// GET /api/v1/seeker/enrollments?filter=upcoming|past|all
func (h *EnrollmentHandler) List(c *gin.Context) {
	userID, role, ok := callerIdentity(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	listType := entities.EnrollmentListType(c.DefaultQuery("filter", string(entities.EnrollmentListAll)))

	enrollments, err := h.enrollmentUsecase.List(c.Request.Context(), userID, role, listType)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]gin.H, 0, len(enrollments))
	for _, enrollment := range enrollments {
		views = append(views, enrollmentView(enrollment))
	}

	response.Success(c, http.StatusOK, gin.H{
		"enrollments": views,
	})
}

func enrollmentView(enrollment *entities.Enrollment) gin.H {
	view := gin.H{
		"id":        enrollment.ID,
		"eventId":   enrollment.EventID,
		"status":    enrollment.Status,
		"createdAt": enrollment.CreatedAt,
		"updatedAt": enrollment.UpdatedAt,
	}
	if enrollment.Event != nil {
		view["event"] = eventView(enrollment.Event)
	}
	return view
}
