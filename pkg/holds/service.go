package holds

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

// Service handles hold requests. A hold is a request log entry against a
// title, not a reservation of a specific copy, so placing one always succeeds
// regardless of current availability.
type Service struct {
	db *bun.DB
}

// NewService creates a new holds service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// PlaceOptions contains options for placing a hold.
type PlaceOptions struct {
	BorrowerID  int
	BookTitleID int
}

// Placement is the response to a placed hold. QueuePosition is a fixed
// placeholder until fulfillment ordering lands.
type Placement struct {
	Hold          *models.HoldRequest `json:"hold"`
	QueuePosition int                 `json:"queue_position"`
}

// Place records a hold request. The borrower must be a member and the title
// must exist; nothing else is checked.
func (s *Service) Place(ctx context.Context, opts PlaceOptions) (*Placement, error) {
	borrower := &models.Person{}
	err := s.db.NewSelect().
		Model(borrower).
		Where("p.id = ?", opts.BorrowerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Person")
		}
		return nil, errors.WithStack(err)
	}
	if !borrower.IsMember() {
		return nil, errcodes.InvalidOperation("Only members can place holds")
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

	hold := &models.HoldRequest{
		BorrowerID:  opts.BorrowerID,
		BookTitleID: opts.BookTitleID,
		RequestDate: time.Now(),
		Status:      models.HoldPending,
	}

	if _, err := s.db.NewInsert().Model(hold).Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	hold, err = s.RetrieveHold(ctx, hold.ID)
	if err != nil {
		return nil, err
	}

	return &Placement{Hold: hold, QueuePosition: 1}, nil
}

// RetrieveHold gets a single hold request by id.
func (s *Service) RetrieveHold(ctx context.Context, id int) (*models.HoldRequest, error) {
	hold := &models.HoldRequest{}
	err := s.db.NewSelect().
		Model(hold).
		Relation("Borrower").
		Relation("BookTitle").
		Where("hr.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Hold")
		}
		return nil, errors.WithStack(err)
	}
	return hold, nil
}

// Cancel moves a PENDING hold to CANCELED. Canceling a hold that is already
// settled is a no-op; canceling a hold that doesn't exist is an error.
func (s *Service) Cancel(ctx context.Context, id int) (*models.HoldRequest, error) {
	hold := &models.HoldRequest{}
	err := s.db.NewSelect().
		Model(hold).
		Where("hr.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.InvalidOperation("Hold not found")
		}
		return nil, errors.WithStack(err)
	}

	if hold.Status == models.HoldPending {
		hold.Status = models.HoldCanceled
		_, err = s.db.NewUpdate().
			Model(hold).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return s.RetrieveHold(ctx, id)
}

// ListHoldsOptions contains options for listing hold requests.
type ListHoldsOptions struct {
	BorrowerID  *int
	BookTitleID *int
	Status      *string
}

// ListHolds returns hold requests oldest first, matching request order.
func (s *Service) ListHolds(ctx context.Context, opts ListHoldsOptions) ([]*models.HoldRequest, error) {
	holds := []*models.HoldRequest{}

	query := s.db.NewSelect().
		Model(&holds).
		Relation("Borrower").
		Relation("BookTitle").
		Order("hr.id ASC")

	if opts.BorrowerID != nil {
		query = query.Where("hr.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.BookTitleID != nil {
		query = query.Where("hr.book_title_id = ?", *opts.BookTitleID)
	}
	if opts.Status != nil {
		query = query.Where("hr.status = ?", *opts.Status)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return holds, nil
}
