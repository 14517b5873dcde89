package inventory

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

// Service handles physical copies of catalog titles.
type Service struct {
	db *bun.DB
}

// NewService creates a new inventory service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateItemOptions contains options for registering a copy.
type CreateItemOptions struct {
	Barcode      string
	BookTitleID  int
	PurchaseDate *time.Time
	RackLocation *string
}

// CreateItem registers a new copy. The barcode is the inventory's unique key.
// New copies start AVAILABLE and default to today's purchase date.
func (s *Service) CreateItem(ctx context.Context, opts CreateItemOptions) (*models.BookItem, error) {
	exists, err := s.db.NewSelect().
		Model((*models.BookItem)(nil)).
		Where("barcode = ?", opts.Barcode).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.DuplicateKey("Item", opts.Barcode)
	}

	titleExists, err := s.db.NewSelect().
		Model((*models.BookTitle)(nil)).
		Where("id = ?", opts.BookTitleID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !titleExists {
		return nil, errcodes.NotFound("Title")
	}

	purchaseDate := time.Now()
	if opts.PurchaseDate != nil {
		purchaseDate = *opts.PurchaseDate
	}

	item := &models.BookItem{
		Barcode:      opts.Barcode,
		BookTitleID:  opts.BookTitleID,
		Status:       models.ItemAvailable,
		PurchaseDate: purchaseDate,
		RackLocation: opts.RackLocation,
	}

	_, err = s.db.NewInsert().Model(item).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.RetrieveItem(ctx, RetrieveItemOptions{ID: &item.ID})
}

// RetrieveItemOptions contains options for retrieving a copy.
type RetrieveItemOptions struct {
	ID      *int
	Barcode *string
}

// RetrieveItem gets a single copy by id or exact barcode.
func (s *Service) RetrieveItem(ctx context.Context, opts RetrieveItemOptions) (*models.BookItem, error) {
	item := &models.BookItem{}
	query := s.db.NewSelect().
		Model(item).
		Relation("BookTitle")

	if opts.ID != nil {
		query = query.Where("bi.id = ?", *opts.ID)
	}
	if opts.Barcode != nil {
		query = query.Where("bi.barcode = ?", *opts.Barcode)
	}

	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Item")
		}
		return nil, errors.WithStack(err)
	}
	return item, nil
}

// ListItemsOptions contains options for listing copies.
type ListItemsOptions struct {
	BookTitleID *int
	Status      *string
}

// ListItems returns the full ordered inventory, optionally filtered by title
// or status. Insertion order is the reporting order.
func (s *Service) ListItems(ctx context.Context, opts ListItemsOptions) ([]*models.BookItem, error) {
	items := []*models.BookItem{}

	query := s.db.NewSelect().
		Model(&items).
		Relation("BookTitle").
		Order("bi.id ASC")

	if opts.BookTitleID != nil {
		query = query.Where("bi.book_title_id = ?", *opts.BookTitleID)
	}
	if opts.Status != nil {
		query = query.Where("bi.status = ?", *opts.Status)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return items, nil
}

// UpdateItemOptions contains options for updating a copy.
type UpdateItemOptions struct {
	Columns []string
}

// UpdateItem updates the given columns of a copy.
func (s *Service) UpdateItem(ctx context.Context, item *models.BookItem, opts UpdateItemOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	opts.Columns = append(opts.Columns, "updated_at")
	_, err := s.db.NewUpdate().
		Model(item).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// DeleteItem removes a copy unconditionally. It does not check for an active
// loan; callers must verify before deleting.
func (s *Service) DeleteItem(ctx context.Context, id int) error {
	exists, err := s.db.NewSelect().
		Model((*models.BookItem)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Item")
	}

	_, err = s.db.NewDelete().
		Model((*models.BookItem)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
