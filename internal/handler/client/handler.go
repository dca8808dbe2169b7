package client

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/service/client"
	"github.com/carebridge/agency-api/pkg/httputil"
)

type Handler struct {
	service *client.Service
}

func NewHandler(service *client.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/clients")
	{
		clients.POST("", h.CreateClient)
		clients.GET("", h.ListClients)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeactivateClient)
	}
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateClient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusCreated, created)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid client ID")
		return
	}

	found, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, found)
}

func (h *Handler) ListClients(c *gin.Context) {
	filters := &model.ClientFilters{
		Status:     model.ClientStatus(c.Query("status")),
		SearchTerm: c.Query("search"),
	}

	clients, err := h.service.ListClients(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, clients)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid client ID")
		return
	}

	var req model.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateClient(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, updated)
}

func (h *Handler) DeactivateClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid client ID")
		return
	}

	if err := h.service.DeactivateClient(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, gin.H{"id": id})
}
