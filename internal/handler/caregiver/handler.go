package caregiver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/service/caregiver"
	"github.com/carebridge/agency-api/pkg/httputil"
)

type Handler struct {
	service *caregiver.Service
}

func NewHandler(service *caregiver.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	caregivers := r.Group("/caregivers")
	{
		caregivers.POST("", h.CreateCaregiver)
		caregivers.GET("", h.ListCaregivers)
		caregivers.GET("/:id", h.GetCaregiver)
		caregivers.PUT("/:id", h.UpdateCaregiver)
		caregivers.PUT("/:id/pin", h.SetPin)
		caregivers.POST("/:id/pin/verify", h.VerifyPin)
	}
}

func (h *Handler) CreateCaregiver(c *gin.Context) {
	var req model.CreateCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateCaregiver(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusCreated, created)
}

func (h *Handler) GetCaregiver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid caregiver ID")
		return
	}

	found, err := h.service.GetCaregiver(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, found)
}

func (h *Handler) ListCaregivers(c *gin.Context) {
	filters := &model.CaregiverFilters{
		Status:     model.CaregiverStatus(c.Query("status")),
		SearchTerm: c.Query("search"),
	}

	caregivers, err := h.service.ListCaregivers(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, caregivers)
}

func (h *Handler) UpdateCaregiver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid caregiver ID")
		return
	}

	var req model.UpdateCaregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateCaregiver(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, updated)
}

func (h *Handler) SetPin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid caregiver ID")
		return
	}

	var req model.SetPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetPin(c.Request.Context(), id, req.Pin); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, gin.H{"id": id})
}

func (h *Handler) VerifyPin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid caregiver ID")
		return
	}

	var req model.VerifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.VerifyPin(c.Request.Context(), id, req.Pin); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, gin.H{"verified": true})
}
