package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

// Service handles bibliographic records: titles and their authors.
type Service struct {
	db *bun.DB
}

// NewService creates a new catalog service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateTitleOptions contains options for creating a book title.
type CreateTitleOptions struct {
	ISBN      string
	Title     string
	Genre     string
	Publisher string
	AuthorIDs []int
}

// CreateTitle adds a new title to the catalog. The ISBN is the catalog's
// unique key; a duplicate leaves the catalog unchanged.
func (s *Service) CreateTitle(ctx context.Context, opts CreateTitleOptions) (*models.BookTitle, error) {
	exists, err := s.db.NewSelect().
		Model((*models.BookTitle)(nil)).
		Where("isbn = ?", opts.ISBN).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.DuplicateKey("Title", opts.ISBN)
	}

	for _, authorID := range opts.AuthorIDs {
		authorExists, err := s.db.NewSelect().
			Model((*models.Author)(nil)).
			Where("id = ?", authorID).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !authorExists {
			return nil, errcodes.NotFound("Author")
		}
	}

	title := &models.BookTitle{
		ISBN:      opts.ISBN,
		Title:     opts.Title,
		Genre:     opts.Genre,
		Publisher: opts.Publisher,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(title).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		// Author order on a title is meaningful; preserve the request order.
		for i, authorID := range opts.AuthorIDs {
			link := &models.TitleAuthor{
				BookTitleID: title.ID,
				AuthorID:    authorID,
				SortOrder:   i,
			}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.RetrieveTitle(ctx, RetrieveTitleOptions{ID: &title.ID})
}

// RetrieveTitleOptions contains options for retrieving a title.
type RetrieveTitleOptions struct {
	ID   *int
	ISBN *string
}

// RetrieveTitle gets a single title by id or exact ISBN.
func (s *Service) RetrieveTitle(ctx context.Context, opts RetrieveTitleOptions) (*models.BookTitle, error) {
	title := &models.BookTitle{}
	query := s.db.NewSelect().
		Model(title).
		Relation("Authors", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ta.sort_order ASC")
		}).
		Relation("Authors.Author")

	if opts.ID != nil {
		query = query.Where("bt.id = ?", *opts.ID)
	}
	if opts.ISBN != nil {
		query = query.Where("bt.isbn = ?", *opts.ISBN)
	}

	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Title")
		}
		return nil, errors.WithStack(err)
	}
	return title, nil
}

// likeEscaper quotes LIKE metacharacters so a keyword matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchKeyword finds the first title, in catalog insertion order, whose title
// text contains the keyword (case-insensitive, plain substring). Returns a
// single result; use ListTitles for full enumeration.
func (s *Service) SearchKeyword(ctx context.Context, keyword string) (*models.BookTitle, error) {
	title := &models.BookTitle{}
	err := s.db.NewSelect().
		Model(title).
		Relation("Authors", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ta.sort_order ASC")
		}).
		Relation("Authors.Author").
		Where(`bt.title LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(keyword)+"%").
		Order("bt.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Title")
		}
		return nil, errors.WithStack(err)
	}
	return title, nil
}

// ListTitlesOptions contains options for listing titles.
type ListTitlesOptions struct {
	Limit  int
	Offset int
}

// ListTitles returns titles in insertion order with a total count.
func (s *Service) ListTitles(ctx context.Context, opts ListTitlesOptions) ([]*models.BookTitle, int, error) {
	titles := []*models.BookTitle{}

	query := s.db.NewSelect().
		Model(&titles).
		Relation("Authors", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ta.sort_order ASC")
		}).
		Relation("Authors.Author").
		Order("bt.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return titles, total, nil
}

// UpdateTitleOptions contains options for updating a title.
type UpdateTitleOptions struct {
	Columns []string
}

// UpdateTitle updates the given columns of a title.
func (s *Service) UpdateTitle(ctx context.Context, title *models.BookTitle, opts UpdateTitleOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	opts.Columns = append(opts.Columns, "updated_at")
	_, err := s.db.NewUpdate().
		Model(title).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// DeleteTitle removes a title and its author links. Existing copies are not
// cascaded: they keep their book_title_id and show up as orphaned. Callers
// that care must check the inventory first.
func (s *Service) DeleteTitle(ctx context.Context, id int) error {
	exists, err := s.db.NewSelect().
		Model((*models.BookTitle)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Title")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.TitleAuthor)(nil)).
			Where("book_title_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.BookTitle)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// CreateAuthor adds an author to the directory.
func (s *Service) CreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	author := &models.Author{Name: name}
	_, err := s.db.NewInsert().Model(author).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return author, nil
}

// RetrieveAuthor gets an author by ID.
func (s *Service) RetrieveAuthor(ctx context.Context, id int) (*models.Author, error) {
	author := &models.Author{}
	err := s.db.NewSelect().
		Model(author).
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}
	return author, nil
}

// ListAuthors returns all authors in insertion order.
func (s *Service) ListAuthors(ctx context.Context) ([]*models.Author, error) {
	authors := []*models.Author{}
	err := s.db.NewSelect().
		Model(&authors).
		Order("a.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return authors, nil
}

// RenameAuthor corrects an author's name. Authors are otherwise immutable.
func (s *Service) RenameAuthor(ctx context.Context, author *models.Author, name string) error {
	author.Name = name
	_, err := s.db.NewUpdate().
		Model(author).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
