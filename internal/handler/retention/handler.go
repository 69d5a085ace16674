package retention

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/retention-api/internal/middleware"
	"github.com/jwalitptl/retention-api/internal/model"
	retentionService "github.com/jwalitptl/retention-api/internal/service/retention"
	"github.com/jwalitptl/retention-api/pkg/errors"
	"github.com/jwalitptl/retention-api/pkg/httputil"
)

type Handler struct {
	service retentionService.Servicer
}

func NewHandler(service retentionService.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rules := r.Group("/retention/rules")
	{
		rules.GET("", h.ListRules)
		rules.POST("", h.CreateRule)
		rules.GET("/:id", h.GetRule)
		rules.PUT("/:id", h.UpdateRule)
		rules.DELETE("/:id", h.DeleteRule)
		rules.GET("/:id/preview", h.PreviewRule)
		rules.POST("/:id/execute", h.ExecuteRule)
	}
}

type createRuleRequest struct {
	DataType        string `json:"data_type" binding:"required"`
	RetentionMonths int    `json:"retention_months" binding:"required"`
	IsActive        *bool  `json:"is_active"`
}

type updateRuleRequest struct {
	RetentionMonths int   `json:"retention_months" binding:"required"`
	IsActive        *bool `json:"is_active" binding:"required"`
}

func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.service.ListRules(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, rules)
}

func (h *Handler) CreateRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	rule, err := h.service.CreateRule(c.Request.Context(), model.DataType(req.DataType), req.RetentionMonths, active, middleware.Actor(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, rule)
}

func (h *Handler) GetRule(c *gin.Context) {
	id, ok := ruleID(c)
	if !ok {
		return
	}

	rule, err := h.service.GetRule(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, rule)
}

func (h *Handler) UpdateRule(c *gin.Context) {
	id, ok := ruleID(c)
	if !ok {
		return
	}

	var req updateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	rule, err := h.service.UpdateRule(c.Request.Context(), id, req.RetentionMonths, *req.IsActive, middleware.Actor(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, rule)
}

func (h *Handler) DeleteRule(c *gin.Context) {
	id, ok := ruleID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PreviewRule(c *gin.Context) {
	id, ok := ruleID(c)
	if !ok {
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, preview)
}

func (h *Handler) ExecuteRule(c *gin.Context) {
	id, ok := ruleID(c)
	if !ok {
		return
	}

	exec, err := h.service.ExecuteRule(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, exec)
}

func ruleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondWithError(c, errors.NewBadRequest("invalid rule id", err))
		return 0, false
	}
	return id, true
}
