package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/service/assignment"
	"github.com/carebridge/agency-api/pkg/httputil"
)

type Handler struct {
	service *assignment.Service
}

func NewHandler(service *assignment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assignments := r.Group("/assignments")
	{
		assignments.POST("", h.CreateAssignment)
		assignments.GET("", h.ListAssignments)
		assignments.GET("/:id", h.GetAssignment)
		assignments.PATCH("/:id", h.PatchAssignment)
		assignments.DELETE("/:id", h.DeleteAssignment)
	}
	r.GET("/clients/:id/primary-assignment", h.GetActivePrimary)
}

func (h *Handler) CreateAssignment(c *gin.Context) {
	var req model.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateAssignment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusCreated, created)
}

func (h *Handler) GetAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	found, err := h.service.GetAssignment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, found)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	filters := &model.AssignmentFilters{}

	if id := c.Query("client_id"); id != "" {
		clientID, err := uuid.Parse(id)
		if err != nil {
			httputil.Error(c, http.StatusBadRequest, "invalid client ID")
			return
		}
		filters.ClientID = clientID
	}

	if id := c.Query("caregiver_id"); id != "" {
		caregiverID, err := uuid.Parse(id)
		if err != nil {
			httputil.Error(c, http.StatusBadRequest, "invalid caregiver ID")
			return
		}
		filters.CaregiverID = caregiverID
	}

	filters.ActiveOnly = c.Query("active") == "true"

	assignments, err := h.service.ListAssignments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, assignments)
}

func (h *Handler) PatchAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	var req model.PatchAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	patched, err := h.service.PatchAssignment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, patched)
}

func (h *Handler) DeleteAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	if err := h.service.DeleteAssignment(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, gin.H{"id": id})
}

func (h *Handler) GetActivePrimary(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid client ID")
		return
	}

	primary, err := h.service.GetActivePrimary(c.Request.Context(), clientID)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, primary)
}
