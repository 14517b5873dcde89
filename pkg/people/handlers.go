package people

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/errcodes"
)

type handler struct {
	peopleService *Service
}

func (h *handler) createPerson(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreatePersonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	person, err := h.peopleService.CreatePerson(ctx, CreatePersonOptions{
		Name:        params.Name,
		Password:    params.Password,
		ContactInfo: params.ContactInfo,
		Role:        params.Role,
		Salary:      params.Salary,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, person))
}

func (h *handler) retrievePerson(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	person, err := h.peopleService.RetrievePerson(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, person))
}

func (h *handler) listPeople(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPeopleQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	people, err := h.peopleService.ListPeople(ctx, ListPeopleOptions{
		Role: params.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, people))
}

func (h *handler) listPersonLoans(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	loans, err := h.peopleService.ListLoansForPerson(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, loans))
}

func (h *handler) updatePerson(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	params := UpdatePersonPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	person, err := h.peopleService.RetrievePerson(ctx, id)
	if err != nil {
		return err
	}

	// Keep track of what's been changed
	opts := UpdatePersonOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != person.Name {
		person.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.ContactInfo != nil && *params.ContactInfo != person.ContactInfo {
		person.ContactInfo = *params.ContactInfo
		opts.Columns = append(opts.Columns, "contact_info")
	}
	if params.AccountStatus != nil {
		if !person.IsMember() {
			return errcodes.InvalidOperation("Account status only applies to members")
		}
		person.AccountStatus = params.AccountStatus
		opts.Columns = append(opts.Columns, "account_status")
	}
	if params.MaxBookLimit != nil {
		if !person.IsMember() {
			return errcodes.InvalidOperation("Book limit only applies to members")
		}
		person.MaxBookLimit = params.MaxBookLimit
		opts.Columns = append(opts.Columns, "max_book_limit")
	}
	if params.Salary != nil {
		if !person.IsStaff() {
			return errcodes.InvalidOperation("Salary only applies to staff")
		}
		person.Salary = params.Salary
		opts.Columns = append(opts.Columns, "salary")
	}
	if params.Password != nil {
		hashedPassword, err := auth.HashPassword(*params.Password)
		if err != nil {
			return err
		}
		person.PasswordHash = hashedPassword
		opts.Columns = append(opts.Columns, "password_hash")
	}

	if err := h.peopleService.UpdatePerson(ctx, person, opts); err != nil {
		return err
	}

	person, err = h.peopleService.RetrievePerson(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, person))
}

func (h *handler) deletePerson(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Person")
	}

	requester, ok := auth.PersonFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	if err := h.peopleService.DeletePerson(ctx, id, requester.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
