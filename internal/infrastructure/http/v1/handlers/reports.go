package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/reports"
)

// ReportsHandler handles revenue reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

func periodFromQuery(c *gin.Context) reports.Range {
	return reports.ResolvePeriod(
		c.DefaultQuery("period", reports.PeriodMonth),
		time.Now(),
		c.Query("start"),
		c.Query("end"),
	)
}

// Summary handles GET /reports/summary.
// Optional branchId or staffId narrows the scope; otherwise global.
func (h *ReportsHandler) Summary(c *gin.Context) {
	period := periodFromQuery(c)

	scope := reports.ScopeGlobal
	entityID := id.Nil()

	if v := c.Query("branchId"); v != "" {
		branchID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid branch id"))
			return
		}
		scope, entityID = reports.ScopeBranch, branchID
	} else if v := c.Query("staffId"); v != "" {
		staffID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid staff id"))
			return
		}
		scope, entityID = reports.ScopeStaff, staffID
	}

	result, err := h.service.Aggregate(c.Request.Context(), scope, entityID, period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Branches handles GET /reports/branches - per-branch comparison.
func (h *ReportsHandler) Branches(c *gin.Context) {
	rows, err := h.service.CompareBranches(c.Request.Context(), periodFromQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rows)
}

// Staff handles GET /reports/staff/:branchId - per-staff breakdown.
func (h *ReportsHandler) Staff(c *gin.Context) {
	branchID, err := id.Parse(c.Param("branchId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid branch id"))
		return
	}

	rows, err := h.service.StaffPerformance(c.Request.Context(), branchID, periodFromQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rows)
}

// Customer handles GET /reports/customers/:id - lifetime customer stats.
func (h *ReportsHandler) Customer(c *gin.Context) {
	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	stats, err := h.service.CustomerStats(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}
