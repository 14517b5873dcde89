package catalog

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/circdesk/circdesk/pkg/errcodes"
)

type handler struct {
	catalogService *Service
}

func (h *handler) createTitle(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateTitlePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	title, err := h.catalogService.CreateTitle(ctx, CreateTitleOptions{
		ISBN:      params.ISBN,
		Title:     params.Title,
		Genre:     params.Genre,
		Publisher: params.Publisher,
		AuthorIDs: params.AuthorIDs,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, title))
}

func (h *handler) retrieveTitle(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Title")
	}

	title, err := h.catalogService.RetrieveTitle(ctx, RetrieveTitleOptions{ID: &id})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, title))
}

func (h *handler) lookupTitle(c echo.Context) error {
	ctx := c.Request().Context()

	params := LookupTitleQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if (params.ISBN == nil) == (params.Keyword == nil) {
		return errcodes.ValidationError("Exactly one of \"isbn\" and \"keyword\" is required")
	}

	if params.ISBN != nil {
		title, err := h.catalogService.RetrieveTitle(ctx, RetrieveTitleOptions{ISBN: params.ISBN})
		if err != nil {
			return err
		}
		return errors.WithStack(c.JSON(http.StatusOK, title))
	}

	title, err := h.catalogService.SearchKeyword(ctx, *params.Keyword)
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, title))
}

func (h *handler) listTitles(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListTitlesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	titles, total, err := h.catalogService.ListTitles(ctx, ListTitlesOptions{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"titles": titles,
		"total":  total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) updateTitle(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Title")
	}

	params := UpdateTitlePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	title, err := h.catalogService.RetrieveTitle(ctx, RetrieveTitleOptions{ID: &id})
	if err != nil {
		return err
	}

	// Keep track of what's been changed
	opts := UpdateTitleOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != title.Title {
		title.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Genre != nil && *params.Genre != title.Genre {
		title.Genre = *params.Genre
		opts.Columns = append(opts.Columns, "genre")
	}
	if params.Publisher != nil && *params.Publisher != title.Publisher {
		title.Publisher = *params.Publisher
		opts.Columns = append(opts.Columns, "publisher")
	}

	if err := h.catalogService.UpdateTitle(ctx, title, opts); err != nil {
		return err
	}

	title, err = h.catalogService.RetrieveTitle(ctx, RetrieveTitleOptions{ID: &id})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, title))
}

func (h *handler) deleteTitle(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Title")
	}

	if err := h.catalogService.DeleteTitle(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) createAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.catalogService.CreateAuthor(ctx, params.Name)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, author))
}

func (h *handler) retrieveAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.catalogService.RetrieveAuthor(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) listAuthors(c echo.Context) error {
	ctx := c.Request().Context()

	authors, err := h.catalogService.ListAuthors(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, authors))
}

func (h *handler) updateAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.catalogService.RetrieveAuthor(ctx, id)
	if err != nil {
		return err
	}

	if err := h.catalogService.RenameAuthor(ctx, author, params.Name); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}
