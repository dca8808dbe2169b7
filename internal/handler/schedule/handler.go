package schedule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/agency-api/internal/model"
	"github.com/carebridge/agency-api/internal/service/schedule"
	"github.com/carebridge/agency-api/pkg/httputil"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rules := r.Group("/schedule-rules")
	{
		rules.POST("", h.CreateRule)
		rules.GET("", h.ListRules)
		rules.GET("/:id", h.GetRule)
		rules.DELETE("/:id", h.DeleteRule)
	}
	r.GET("/schedule/day-view", h.DayView)
}

func (h *Handler) CreateRule(c *gin.Context) {
	var req model.CreateScheduleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.service.CreateRule(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusCreated, rule)
}

func (h *Handler) GetRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid schedule rule ID")
		return
	}

	rule, err := h.service.GetRule(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, rule)
}

func (h *Handler) ListRules(c *gin.Context) {
	filters := &model.ScheduleRuleFilters{}

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

	if day := c.Query("day_of_week"); day != "" {
		dayOfWeek, err := strconv.Atoi(day)
		if err != nil || dayOfWeek < 0 || dayOfWeek > 6 {
			httputil.Error(c, http.StatusBadRequest, "day_of_week must be between 0 and 6")
			return
		}
		filters.DayOfWeek = &dayOfWeek
	}

	rules, err := h.service.ListRules(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, rules)
}

func (h *Handler) DeleteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "invalid schedule rule ID")
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), id); err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, gin.H{"id": id})
}

func (h *Handler) DayView(c *gin.Context) {
	req := model.DayViewRequest{WeekStart: c.Query("week_start")}
	if req.WeekStart == "" {
		httputil.Error(c, http.StatusBadRequest, "week_start is required")
		return
	}

	dayIndex, err := strconv.Atoi(c.DefaultQuery("day_index", "0"))
	if err != nil {
		httputil.Error(c, http.StatusBadRequest, "day_index must be a number")
		return
	}
	req.DayIndex = dayIndex

	if id := c.Query("client_id"); id != "" {
		clientID, err := uuid.Parse(id)
		if err != nil {
			httputil.Error(c, http.StatusBadRequest, "invalid client ID")
			return
		}
		req.ClientID = clientID
	}

	if id := c.Query("caregiver_id"); id != "" {
		caregiverID, err := uuid.Parse(id)
		if err != nil {
			httputil.Error(c, http.StatusBadRequest, "invalid caregiver ID")
			return
		}
		req.CaregiverID = caregiverID
	}

	view, err := h.service.DayView(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, err)
		return
	}

	httputil.Success(c, http.StatusOK, view)
}
