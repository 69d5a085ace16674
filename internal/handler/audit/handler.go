package audit

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/retention-api/internal/model"
	"github.com/jwalitptl/retention-api/pkg/httputil"
)

// Lister is the read side of the audit service.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]*model.AuditLog, error)
}

type Handler struct {
	service Lister
}

func NewHandler(service Lister) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit-logs", h.ListLogs)
}

type listLogsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

func (h *Handler) ListLogs(c *gin.Context) {
	var q listLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	logs, err := h.service.Recent(c.Request.Context(), q.Limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, logs)
}
