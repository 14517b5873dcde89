package loans

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/config"
	"github.com/circdesk/circdesk/pkg/models"
)

// RegisterRoutesWithGroup registers loan ledger routes on a pre-configured
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	loansService := NewService(db, cfg)

	h := &handler{
		loansService: loansService,
	}

	g.GET("", h.listLoans)
	g.GET("/:reference", h.retrieveLoan)
	g.GET("/:reference/fine", h.previewFine)
	g.POST("/issue", h.issueLoan, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationWrite))
	g.POST("/return", h.returnLoan, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationWrite))
}
