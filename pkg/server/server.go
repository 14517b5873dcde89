package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/binder"
	"github.com/circdesk/circdesk/pkg/catalog"
	"github.com/circdesk/circdesk/pkg/config"
	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/holds"
	"github.com/circdesk/circdesk/pkg/inventory"
	"github.com/circdesk/circdesk/pkg/loans"
	"github.com/circdesk/circdesk/pkg/models"
	"github.com/circdesk/circdesk/pkg/people"
	"github.com/circdesk/circdesk/pkg/roles"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Register auth routes and get the auth service
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	// Register protected API routes
	// These routes require authentication and appropriate permissions
	registerProtectedRoutes(e, db, cfg, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// registerProtectedRoutes registers all protected API routes with proper authentication and authorization.
func registerProtectedRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	// Catalog routes
	catalogGroup := e.Group("/catalog")
	catalogGroup.Use(authMiddleware.Authenticate)
	catalogGroup.Use(authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationRead))
	catalog.RegisterRoutesWithGroup(catalogGroup, db, authMiddleware)

	// Inventory routes
	inventoryGroup := e.Group("/inventory")
	inventoryGroup.Use(authMiddleware.Authenticate)
	inventoryGroup.Use(authMiddleware.RequirePermission(models.ResourceInventory, models.OperationRead))
	inventory.RegisterRoutesWithGroup(inventoryGroup, db, authMiddleware)

	// Loan ledger routes
	loansGroup := e.Group("/loans")
	loansGroup.Use(authMiddleware.Authenticate)
	loansGroup.Use(authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRead))
	loans.RegisterRoutesWithGroup(loansGroup, db, cfg, authMiddleware)

	// Hold request routes
	holdsGroup := e.Group("/holds")
	holdsGroup.Use(authMiddleware.Authenticate)
	holdsGroup.Use(authMiddleware.RequirePermission(models.ResourceHolds, models.OperationRead))
	holds.RegisterRoutesWithGroup(holdsGroup, db, authMiddleware)

	// People routes
	peopleGroup := e.Group("/people")
	peopleGroup.Use(authMiddleware.Authenticate)
	peopleGroup.Use(authMiddleware.RequirePermission(models.ResourcePeople, models.OperationRead))
	people.RegisterRoutesWithGroup(peopleGroup, db, authMiddleware)

	// Roles routes (read-only, seeded by migrations)
	rolesGroup := e.Group("/roles")
	rolesGroup.Use(authMiddleware.Authenticate)
	rolesGroup.Use(authMiddleware.RequirePermission(models.ResourcePeople, models.OperationRead))
	roles.RegisterRoutesWithGroup(rolesGroup, db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
