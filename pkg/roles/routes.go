package roles

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers role routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	rolesService := NewService(db)

	h := &handler{
		rolesService: rolesService,
	}

	g.GET("", h.listRoles)
	g.GET("/:name", h.retrieveRole)
}
