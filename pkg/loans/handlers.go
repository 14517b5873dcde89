package loans

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/errcodes"
)

type handler struct {
	loansService *Service
}

func (h *handler) issueLoan(c echo.Context) error {
	ctx := c.Request().Context()

	params := IssuePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	loan, err := h.loansService.Issue(ctx, IssueOptions{
		Barcode:    params.Barcode,
		BorrowerID: params.BorrowerID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, loan))
}

func (h *handler) returnLoan(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReturnPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	receipt, err := h.loansService.Return(ctx, params.Barcode)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, receipt))
}

func (h *handler) retrieveLoan(c echo.Context) error {
	ctx := c.Request().Context()
	reference := c.Param("reference")

	loan, err := h.loansService.RetrieveLoan(ctx, RetrieveLoanOptions{Reference: &reference})
	if err != nil {
		return err
	}

	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() && loan.BorrowerID != person.ID {
		return errcodes.Forbidden("read another member's loan")
	}

	return errors.WithStack(c.JSON(http.StatusOK, loan))
}

func (h *handler) previewFine(c echo.Context) error {
	ctx := c.Request().Context()
	reference := c.Param("reference")

	loan, err := h.loansService.RetrieveLoan(ctx, RetrieveLoanOptions{Reference: &reference})
	if err != nil {
		return err
	}

	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() && loan.BorrowerID != person.ID {
		return errcodes.Forbidden("read another member's loan")
	}

	fine, err := h.loansService.FinePreview(ctx, reference)
	if err != nil {
		return err
	}

	response := map[string]interface{}{
		"reference": reference,
		"fine":      fine,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) listLoans(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListLoansOptions{
		BorrowerID: params.BorrowerID,
		ActiveOnly: params.Active,
	}

	// Members only ever see their own ledger entries.
	if person, ok := auth.PersonFromContext(c); ok && person.IsMember() {
		opts.BorrowerID = &person.ID
	}

	loans, err := h.loansService.ListLoans(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, loans))
}
