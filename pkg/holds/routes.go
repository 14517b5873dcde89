package holds

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/models"
)

// RegisterRoutesWithGroup registers hold request routes on a pre-configured
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	holdsService := NewService(db)

	h := &handler{
		holdsService: holdsService,
	}

	g.GET("", h.listHolds)
	g.GET("/:id", h.retrieveHold)
	g.POST("", h.placeHold, authMiddleware.RequirePermission(models.ResourceHolds, models.OperationWrite))
	g.POST("/:id/cancel", h.cancelHold, authMiddleware.RequirePermission(models.ResourceHolds, models.OperationWrite))
}
