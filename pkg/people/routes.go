package people

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/models"
)

// RegisterRoutesWithGroup registers person directory routes on a
// pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	peopleService := NewService(db)

	h := &handler{
		peopleService: peopleService,
	}

	g.GET("", h.listPeople)
	g.GET("/:id", h.retrievePerson)
	g.GET("/:id/loans", h.listPersonLoans)
	g.POST("", h.createPerson, authMiddleware.RequirePermission(models.ResourcePeople, models.OperationWrite))
	g.PATCH("/:id", h.updatePerson, authMiddleware.RequirePermission(models.ResourcePeople, models.OperationWrite))
	g.DELETE("/:id", h.deletePerson, authMiddleware.RequirePermission(models.ResourcePeople, models.OperationWrite))
}
