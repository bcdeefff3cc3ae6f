package v1

import (
	"github.com/gin-gonic/gin"

	"rezerve/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler is the handler surface shared by catalog entities.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes wires standard CRUD routes for a catalog entity.
// Reads are open to any authenticated user; writes require the given
// permission.
func RegisterCatalogRoutes(group *gin.RouterGroup, path string, h CatalogRouteHandler, writePermission string) {
	entity := group.Group("/" + path)

	entity.GET("", h.List)
	entity.GET("/:id", h.Get)

	write := entity.Group("", middleware.RequirePermission(writePermission))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)
	write.DELETE("/:id", h.Delete)
}
