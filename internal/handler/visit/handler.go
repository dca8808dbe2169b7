package visit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/service/visit"
	"github.com/carebridge/agency-api/pkg/httputil"
)

type Handler struct {
	service *visit.Service
}

func NewHandler(service *visit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	visits := r.Group("/visits")
	{
		visits.POST("", h.CreateVisit)
		visits.GET("", h.ListVisits)
		visits.GET("/:id", h.GetVisit)
		visits.PATCH("/:id", h.UpdateVisit)
		visits.DELETE("/:id", h.DeleteVisit)
	}
}

func (h *Handler) CreateVisit(c *gin.Context) {
	var req model.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateVisit(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusCreated, created)
}

func (h *Handler) GetVisit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid visit ID")
		return
	}

	found, err := h.service.GetVisit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, found)
}

func (h *Handler) ListVisits(c *gin.Context) {
	filters := &model.VisitFilters{}

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

	visits, err := h.service.ListVisits(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, visits)
}

func (h *Handler) UpdateVisit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid visit ID")
		return
	}

	var req model.UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateVisit(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, updated)
}

func (h *Handler) DeleteVisit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid visit ID")
		return
	}

	if err := h.service.DeleteVisit(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, gin.H{"id": id})
}
