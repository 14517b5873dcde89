package holds

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/errcodes"
)

type handler struct {
	holdsService *Service
}

func (h *handler) placeHold(c echo.Context) error {
	ctx := c.Request().Context()

	params := PlaceHoldPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	borrowerID := params.BorrowerID

	// Members place holds for themselves; staff may place on a member's behalf.
	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() {
		borrowerID = person.ID
	}
	if borrowerID == 0 {
		return errcodes.ValidationError("\"borrower_id\" is required")
	}

	placement, err := h.holdsService.Place(ctx, PlaceOptions{
		BorrowerID:  borrowerID,
		BookTitleID: params.BookTitleID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, placement))
}

func (h *handler) retrieveHold(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Hold")
	}

	hold, err := h.holdsService.RetrieveHold(ctx, id)
	if err != nil {
		return err
	}

	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() && hold.BorrowerID != person.ID {
		return errcodes.Forbidden("read another member's hold")
	}

	return errors.WithStack(c.JSON(http.StatusOK, hold))
}

func (h *handler) cancelHold(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.InvalidOperation("Hold not found")
	}

	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() {
		hold, err := h.holdsService.RetrieveHold(ctx, id)
		if err != nil {
			return errcodes.InvalidOperation("Hold not found")
		}
		if hold.BorrowerID != person.ID {
			return errcodes.Forbidden("cancel another member's hold")
		}
	}

	hold, err := h.holdsService.Cancel(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, hold))
}

func (h *handler) listHolds(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListHoldsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListHoldsOptions{
		BorrowerID:  params.BorrowerID,
		BookTitleID: params.BookTitleID,
		Status:      params.Status,
	}

	// Members only ever see their own requests.
	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() {
		opts.BorrowerID = &person.ID
	}

	holds, err := h.holdsService.ListHolds(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, holds))
}
