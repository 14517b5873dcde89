package inventory

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/models"
)

// RegisterRoutesWithGroup registers inventory routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	inventoryService := NewService(db)

	h := &handler{
		inventoryService: inventoryService,
	}

	g.GET("/items", h.listItems)
	g.GET("/items/:barcode", h.retrieveItem)
	g.POST("/items", h.createItem, authMiddleware.RequirePermission(models.ResourceInventory, models.OperationWrite))
	g.PATCH("/items/:barcode", h.updateItem, authMiddleware.RequirePermission(models.ResourceInventory, models.OperationWrite))
	g.DELETE("/items/:barcode", h.deleteItem, authMiddleware.RequirePermission(models.ResourceInventory, models.OperationWrite))
}
