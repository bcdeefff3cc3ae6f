package handlers

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/core/apperror"
	"rezerve/internal/core/id"
	"rezerve/internal/domain/catalogs/customer"
	"rezerve/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles customer catalog endpoints.
type CustomerHandler struct {
	*CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]
	service *customer.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
			Service:    service.CatalogService,
			EntityName: "Customer",
			MapCreateDTO: func(req dto.CreateCustomerRequest) (*customer.Customer, error) {
				c := customer.New(req.Name, req.Phone)
				c.Email = req.Email
				c.Notes = req.Notes
				return c, nil
			},
			MapUpdateDTO: func(req dto.UpdateCustomerRequest, c *customer.Customer) error {
				if req.Name != nil {
					c.Name = *req.Name
				}
				if req.Phone != nil {
					c.Phone = *req.Phone
				}
				if req.Email != nil {
					c.Email = req.Email
				}
				if req.Notes != nil {
					c.Notes = req.Notes
				}
				c.Touch()
				return nil
			},
		}),
		service: service,
	}
}

// Delete handles DELETE /customers/:id?mode=cascade|unlink.
// Overrides the generic delete: removing a customer must decide what
// happens to their reservations.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	mode := customer.DeleteMode(c.DefaultQuery("mode", string(customer.DeleteModeUnlink)))
	if err := h.service.DeleteWithMode(c.Request.Context(), customerID, mode); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Anonymize handles POST /customers/:id/anonymize.
func (h *CustomerHandler) Anonymize(c *gin.Context) {
	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Anonymize(c.Request.Context(), customerID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "customer data cleared")
}

// GetByPhone handles GET /customers/by-phone/:phone.
func (h *CustomerHandler) GetByPhone(c *gin.Context) {
	cust, err := h.service.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cust)
}
