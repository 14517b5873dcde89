package loans

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/config"
	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

// Service handles the loan ledger. Issuing and returning are the only two
// operations that move a copy between AVAILABLE and LOANED, and both run in a
// transaction so the ledger and the inventory can't drift apart.
type Service struct {
	db  *bun.DB
	cfg *config.Config
}

// NewService creates a new loans service.
func NewService(db *bun.DB, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// IssueOptions contains options for issuing a copy.
type IssueOptions struct {
	Barcode    string
	BorrowerID int
}

// Issue checks a copy out to a member. The copy must be AVAILABLE and the
// borrower must be a member in good standing with the directory. The due date
// is the issue date plus the configured loan period.
func (s *Service) Issue(ctx context.Context, opts IssueOptions) (*models.Loan, error) {
	var loan *models.Loan

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		item := &models.BookItem{}
		err := tx.NewSelect().
			Model(item).
			Where("bi.barcode = ?", opts.Barcode).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Item")
			}
			return errors.WithStack(err)
		}
		if item.Status != models.ItemAvailable {
			return errcodes.ItemUnavailable(opts.Barcode)
		}

		borrower := &models.Person{}
		err = tx.NewSelect().
			Model(borrower).
			Where("p.id = ?", opts.BorrowerID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Person")
			}
			return errors.WithStack(err)
		}
		if !borrower.IsMember() {
			return errcodes.InvalidOperation("Only members can borrow")
		}

		issueDate := time.Now()
		loan = &models.Loan{
			Reference:  uuid.NewString(),
			BorrowerID: opts.BorrowerID,
			BookItemID: item.ID,
			IssueDate:  issueDate,
			DueDate:    issueDate.AddDate(0, 0, s.cfg.LoanPeriodDays),
		}

		if _, err := tx.NewInsert().Model(loan).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		item.Status = models.ItemLoaned
		_, err = tx.NewUpdate().
			Model(item).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return s.RetrieveLoan(ctx, RetrieveLoanOptions{ID: &loan.ID})
}

// ReturnReceipt reports the outcome of a return, including any fine owed.
type ReturnReceipt struct {
	Loan *models.Loan `json:"loan"`
	Fine float64      `json:"fine"`
}

// Return checks a copy back in. The fine is computed from the return date and
// reported on the receipt; it is never stored on the ledger row.
func (s *Service) Return(ctx context.Context, barcode string) (*ReturnReceipt, error) {
	var loanID int
	var fine float64

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		item := &models.BookItem{}
		err := tx.NewSelect().
			Model(item).
			Where("bi.barcode = ?", barcode).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Item")
			}
			return errors.WithStack(err)
		}

		loan := &models.Loan{}
		err = tx.NewSelect().
			Model(loan).
			Where("l.book_item_id = ?", item.ID).
			Where("l.return_date IS NULL").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotLoaned(barcode)
			}
			return errors.WithStack(err)
		}

		returnDate := time.Now()
		loan.ReturnDate = &returnDate
		_, err = tx.NewUpdate().
			Model(loan).
			Column("return_date", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		item.Status = models.ItemAvailable
		_, err = tx.NewUpdate().
			Model(item).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		loanID = loan.ID
		fine = loan.Fine(s.cfg.DailyFineRate, returnDate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.RetrieveLoan(ctx, RetrieveLoanOptions{ID: &loanID})
	if err != nil {
		return nil, err
	}

	return &ReturnReceipt{Loan: loan, Fine: fine}, nil
}

// RetrieveLoanOptions contains options for retrieving a ledger entry.
type RetrieveLoanOptions struct {
	ID        *int
	Reference *string
}

// RetrieveLoan gets a single ledger entry by id or reference.
func (s *Service) RetrieveLoan(ctx context.Context, opts RetrieveLoanOptions) (*models.Loan, error) {
	loan := &models.Loan{}
	query := s.db.NewSelect().
		Model(loan).
		Relation("Borrower").
		Relation("BookItem").
		Relation("BookItem.BookTitle")

	if opts.ID != nil {
		query = query.Where("l.id = ?", *opts.ID)
	}
	if opts.Reference != nil {
		query = query.Where("l.reference = ?", *opts.Reference)
	}

	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Loan")
		}
		return nil, errors.WithStack(err)
	}
	return loan, nil
}

// FinePreview reports what a loan would owe if returned right now. For closed
// loans it reports the fine as of the recorded return date.
func (s *Service) FinePreview(ctx context.Context, reference string) (float64, error) {
	loan, err := s.RetrieveLoan(ctx, RetrieveLoanOptions{Reference: &reference})
	if err != nil {
		return 0, err
	}
	return loan.Fine(s.cfg.DailyFineRate, time.Now()), nil
}

// ListLoansOptions contains options for listing ledger entries.
type ListLoansOptions struct {
	BorrowerID *int
	ActiveOnly bool
}

// ListLoans returns ledger entries newest first. Closed loans stay on the
// ledger; ActiveOnly narrows to open ones.
func (s *Service) ListLoans(ctx context.Context, opts ListLoansOptions) ([]*models.Loan, error) {
	loans := []*models.Loan{}

	query := s.db.NewSelect().
		Model(&loans).
		Relation("Borrower").
		Relation("BookItem").
		Relation("BookItem.BookTitle").
		Order("l.id DESC")

	if opts.BorrowerID != nil {
		query = query.Where("l.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.ActiveOnly {
		query = query.Where("l.return_date IS NULL")
	}

	if err := query.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return loans, nil
}
