package handlers

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/catalogs/branch"
	"rezerve/internal/infrastructure/http/v1/dto"
)

// BranchHandler handles branch catalog endpoints.
type BranchHandler struct {
	*CatalogHandler[*branch.Branch, dto.CreateBranchRequest, dto.UpdateBranchRequest]
	service *branch.Service
}

// NewBranchHandler creates a branch handler.
func NewBranchHandler(base *BaseHandler, service *branch.Service) *BranchHandler {
	return &BranchHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*branch.Branch, dto.CreateBranchRequest, dto.UpdateBranchRequest]{
			Service:    service.CatalogService,
			EntityName: "Branch",
			MapCreateDTO: func(req dto.CreateBranchRequest) (*branch.Branch, error) {
				b := branch.New(req.Name, req.Address)
				b.ChatID = req.ChatID
				b.NotifyEnabled = req.NotifyEnabled
				return b, nil
			},
			MapUpdateDTO: func(req dto.UpdateBranchRequest, b *branch.Branch) error {
				if req.Name != nil {
					b.Name = *req.Name
				}
				if req.Address != nil {
					b.Address = *req.Address
				}
				if req.ChatID != nil {
					b.ChatID = req.ChatID
				}
				if req.NotifyEnabled != nil {
					b.NotifyEnabled = *req.NotifyEnabled
				}
				b.Touch()
				return nil
			},
		}),
		service: service,
	}
}

// Delete handles DELETE /branches/:id. Goes through the branch service
// so staff cleanup shares the delete transaction.
func (h *BranchHandler) Delete(c *gin.Context) {
	branchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), branchID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
