package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/audit"
	"rezerve/internal/infrastructure/http/v1/dto"
)

// LogsHandler exposes the audit log.
type LogsHandler struct {
	*BaseHandler
	service *audit.Service
}

// NewLogsHandler creates a logs handler.
func NewLogsHandler(base *BaseHandler, service *audit.Service) *LogsHandler {
	return &LogsHandler{BaseHandler: base, service: service}
}

// List handles GET /logs with filter query params.
func (h *LogsHandler) List(c *gin.Context) {
	filter := audit.Filter{
		LogType: audit.LogType(c.Query("type")),
		Action:  audit.Action(c.Query("action")),
		Limit:   h.ParseIntQuery(c, "limit", 100),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("branchId"); v != "" {
		branchID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid branch id"))
			return
		}
		filter.BranchID = &branchID
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected YYYY-MM-DD"))
			return
		}
		filter.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected YYYY-MM-DD"))
			return
		}
		filter.To = &to
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(total),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
