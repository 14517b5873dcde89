package inventory

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/circdesk/circdesk/pkg/errcodes"
)

type handler struct {
	inventoryService *Service
}

func (h *handler) createItem(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := CreateItemOptions{
		Barcode:      params.Barcode,
		BookTitleID:  params.BookTitleID,
		RackLocation: params.RackLocation,
	}
	if params.PurchaseDate != nil {
		purchaseDate, err := time.Parse("2006-01-02", *params.PurchaseDate)
		if err != nil {
			return errcodes.ValidationError("\"purchase_date\" must be in YYYY-MM-DD format")
		}
		opts.PurchaseDate = &purchaseDate
	}

	item, err := h.inventoryService.CreateItem(ctx, opts)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, item))
}

func (h *handler) retrieveItem(c echo.Context) error {
	ctx := c.Request().Context()
	barcode := c.Param("barcode")

	item, err := h.inventoryService.RetrieveItem(ctx, RetrieveItemOptions{Barcode: &barcode})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) listItems(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListItemsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	items, err := h.inventoryService.ListItems(ctx, ListItemsOptions{
		BookTitleID: params.BookTitleID,
		Status:      params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, items))
}

func (h *handler) updateItem(c echo.Context) error {
	ctx := c.Request().Context()
	barcode := c.Param("barcode")

	params := UpdateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.inventoryService.RetrieveItem(ctx, RetrieveItemOptions{Barcode: &barcode})
	if err != nil {
		return err
	}

	// Keep track of what's been changed
	opts := UpdateItemOptions{Columns: []string{}}

	if params.RackLocation != nil {
		item.RackLocation = params.RackLocation
		opts.Columns = append(opts.Columns, "rack_location")
	}

	if err := h.inventoryService.UpdateItem(ctx, item, opts); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) deleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	barcode := c.Param("barcode")

	item, err := h.inventoryService.RetrieveItem(ctx, RetrieveItemOptions{Barcode: &barcode})
	if err != nil {
		return err
	}

	if err := h.inventoryService.DeleteItem(ctx, item.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
