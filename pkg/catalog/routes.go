package catalog

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/models"
)

// RegisterRoutesWithGroup registers catalog routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	catalogService := NewService(db)

	h := &handler{
		catalogService: catalogService,
	}

	g.GET("/titles", h.listTitles)
	g.GET("/titles/lookup", h.lookupTitle)
	g.GET("/titles/:id", h.retrieveTitle)
	g.POST("/titles", h.createTitle, authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite))
	g.PATCH("/titles/:id", h.updateTitle, authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite))
	g.DELETE("/titles/:id", h.deleteTitle, authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite))

	g.GET("/authors", h.listAuthors)
	g.GET("/authors/:id", h.retrieveAuthor)
	g.POST("/authors", h.createAuthor, authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite))
	g.PATCH("/authors/:id", h.updateAuthor, authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite))
}
