package handlers

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/catalogs/staff"
	"rezerve/internal/infrastructure/http/v1/dto"
)

// StaffHandler handles staff catalog endpoints.
type StaffHandler struct {
	*CatalogHandler[*staff.Staff, dto.CreateStaffRequest, dto.UpdateStaffRequest]
	service *staff.Service
}

// NewStaffHandler creates a staff handler.
func NewStaffHandler(base *BaseHandler, service *staff.Service) *StaffHandler {
	return &StaffHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*staff.Staff, dto.CreateStaffRequest, dto.UpdateStaffRequest]{
			Service:    service.CatalogService,
			EntityName: "Staff",
			MapCreateDTO: func(req dto.CreateStaffRequest) (*staff.Staff, error) {
				branchID, err := id.Parse(req.BranchID)
				if err != nil {
					return nil, apperror.NewValidation("invalid branch id").WithDetail("field", "branchId")
				}
				return staff.New(req.Name, req.Phone, branchID), nil
			},
			MapUpdateDTO: func(req dto.UpdateStaffRequest, s *staff.Staff) error {
				if req.Name != nil {
					s.Name = *req.Name
				}
				if req.Phone != nil {
					s.Phone = *req.Phone
				}
				if req.BranchID != nil {
					branchID, err := id.Parse(*req.BranchID)
					if err != nil {
						return apperror.NewValidation("invalid branch id").WithDetail("field", "branchId")
					}
					s.BranchID = branchID
				}
				s.Touch()
				return nil
			},
		}),
		service: service,
	}
}

// ListByBranch handles GET /branches/:id/staff.
func (h *StaffHandler) ListByBranch(c *gin.Context) {
	branchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	items, err := h.service.ListByBranch(c.Request.Context(), branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, items)
}
