package roles

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	rolesService *Service
}

func (h *handler) listRoles(c echo.Context) error {
	ctx := c.Request().Context()

	roles, err := h.rolesService.ListRoles(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, roles))
}

func (h *handler) retrieveRole(c echo.Context) error {
	ctx := c.Request().Context()

	role, err := h.rolesService.RetrieveRole(ctx, c.Param("name"))
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, role))
}
