package loans

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/circdesk/circdesk/pkg/catalog"
	"github.com/circdesk/circdesk/pkg/config"
	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/inventory"
	"github.com/circdesk/circdesk/pkg/migrations"
	"github.com/circdesk/circdesk/pkg/models"
	"github.com/circdesk/circdesk/pkg/people"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DailyFineRate:  0.50,
		LoanPeriodDays: 14,
	}
}

func createMember(ctx context.Context, t *testing.T, db *bun.DB, name string) *models.Person {
	t.Helper()

	person, err := people.NewService(db).CreatePerson(ctx, people.CreatePersonOptions{
		Name:        name,
		Password:    "password1234",
		ContactInfo: name + "@example.com",
		Role:        models.RoleMember,
	})
	require.NoError(t, err)

	return person
}

func createItem(ctx context.Context, t *testing.T, db *bun.DB, isbn, barcode string) *models.BookItem {
	t.Helper()

	title, err := catalog.NewService(db).CreateTitle(ctx, catalog.CreateTitleOptions{
		ISBN:  isbn,
		Title: "Test Title " + isbn,
	})
	require.NoError(t, err)

	item, err := inventory.NewService(db).CreateItem(ctx, inventory.CreateItemOptions{
		Barcode:     barcode,
		BookTitleID: title.ID,
	})
	require.NoError(t, err)

	return item
}

func TestServiceIssue_LifecycleAndDueDate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "borrower")
	createItem(ctx, t, db, "9780000000001", "BC-1001")

	loan, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1001", BorrowerID: member.ID})
	require.NoError(t, err)

	assert.NotEmpty(t, loan.Reference)
	assert.True(t, loan.Active())
	assert.Equal(t, member.ID, loan.BorrowerID)
	assert.WithinDuration(t, loan.IssueDate.AddDate(0, 0, 14), loan.DueDate, time.Second)

	item, err := inventory.NewService(db).RetrieveItem(ctx, inventory.RetrieveItemOptions{ID: &loan.BookItemID})
	require.NoError(t, err)
	assert.Equal(t, models.ItemLoaned, item.Status)
}

func TestServiceIssue_UnavailableItem(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "borrower")
	other := createMember(ctx, t, db, "other")
	createItem(ctx, t, db, "9780000000002", "BC-1002")

	_, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1002", BorrowerID: member.ID})
	require.NoError(t, err)

	_, err = svc.Issue(ctx, IssueOptions{Barcode: "BC-1002", BorrowerID: other.ID})
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "item_unavailable", e.Code)
}

func TestServiceIssue_NonMemberBorrower(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	staff, err := people.NewService(db).CreatePerson(ctx, people.CreatePersonOptions{
		Name:     "desk staff",
		Password: "password1234",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)

	createItem(ctx, t, db, "9780000000003", "BC-1003")

	_, err = svc.Issue(ctx, IssueOptions{Barcode: "BC-1003", BorrowerID: staff.ID})
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "invalid_operation", e.Code)
}

func TestServiceReturn_ClosesLoanAndFreesItem(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "borrower")
	createItem(ctx, t, db, "9780000000004", "BC-1004")

	issued, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1004", BorrowerID: member.ID})
	require.NoError(t, err)

	receipt, err := svc.Return(ctx, "BC-1004")
	require.NoError(t, err)

	assert.False(t, receipt.Loan.Active())
	assert.NotNil(t, receipt.Loan.ReturnDate)
	assert.Equal(t, issued.Reference, receipt.Loan.Reference)
	assert.Equal(t, 0.0, receipt.Fine)

	item, err := inventory.NewService(db).RetrieveItem(ctx, inventory.RetrieveItemOptions{ID: &issued.BookItemID})
	require.NoError(t, err)
	assert.Equal(t, models.ItemAvailable, item.Status)
}

func TestServiceReturn_NotLoaned(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	createItem(ctx, t, db, "9780000000005", "BC-1005")

	_, err := svc.Return(ctx, "BC-1005")
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "not_loaned", e.Code)
}

func TestServiceReturn_OverdueFine(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "borrower")
	createItem(ctx, t, db, "9780000000006", "BC-1006")

	loan, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1006", BorrowerID: member.ID})
	require.NoError(t, err)

	// Backdate the due date so the return lands 3 whole days late.
	dueDate := time.Now().AddDate(0, 0, -3)
	_, err = db.NewUpdate().
		Model((*models.Loan)(nil)).
		Set("due_date = ?", dueDate).
		Where("id = ?", loan.ID).
		Exec(ctx)
	require.NoError(t, err)

	receipt, err := svc.Return(ctx, "BC-1006")
	require.NoError(t, err)

	assert.InDelta(t, 1.50, receipt.Fine, 0.001)
}

func TestServiceReturn_ReissueAfterReturn(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "borrower")
	createItem(ctx, t, db, "9780000000007", "BC-1007")

	first, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1007", BorrowerID: member.ID})
	require.NoError(t, err)

	_, err = svc.Return(ctx, "BC-1007")
	require.NoError(t, err)

	second, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1007", BorrowerID: member.ID})
	require.NoError(t, err)
	assert.NotEqual(t, first.Reference, second.Reference)

	// The closed loan stays on the ledger.
	all, err := svc.ListLoans(ctx, ListLoansOptions{BorrowerID: &member.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListLoans(ctx, ListLoansOptions{BorrowerID: &member.ID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.Reference, active[0].Reference)
}

func TestServiceFinePreview(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "borrower")
	createItem(ctx, t, db, "9780000000008", "BC-1008")

	loan, err := svc.Issue(ctx, IssueOptions{Barcode: "BC-1008", BorrowerID: member.ID})
	require.NoError(t, err)

	// Within the loan period nothing is owed.
	fine, err := svc.FinePreview(ctx, loan.Reference)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fine)

	// 5 whole days past due accrues at the daily rate.
	dueDate := time.Now().AddDate(0, 0, -5)
	_, err = db.NewUpdate().
		Model((*models.Loan)(nil)).
		Set("due_date = ?", dueDate).
		Where("id = ?", loan.ID).
		Exec(ctx)
	require.NoError(t, err)

	fine, err = svc.FinePreview(ctx, loan.Reference)
	require.NoError(t, err)
	assert.InDelta(t, 2.50, fine, 0.001)
}

func TestServiceRetrieveLoan_DatabaseFailureSurfaces(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, newTestConfig())
	ctx := context.Background()

	member := createMember(ctx, t, db, "ledger borrower")
	item := createItem(ctx, t, db, "9780000000009", "BC-DBFAIL")

	loan, err := svc.Issue(ctx, IssueOptions{Barcode: item.Barcode, BorrowerID: member.ID})
	require.NoError(t, err)

	// A broken connection must not read as a missing ledger entry.
	require.NoError(t, db.Close())

	_, err = svc.RetrieveLoan(ctx, RetrieveLoanOptions{Reference: &loan.Reference})
	require.Error(t, err)

	var e *errcodes.Error
	assert.False(t, errors.As(err, &e))
}

func TestLoanFine_DerivedFromReturnDate(t *testing.T) {
	t.Parallel()

	issue := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 14)
	returned := issue.AddDate(0, 0, 16)

	loan := &models.Loan{
		IssueDate:  issue,
		DueDate:    due,
		ReturnDate: &returned,
	}

	// Returned 16 days after issue against a 14-day term: 2 days at $0.50.
	assert.InDelta(t, 1.00, loan.Fine(0.50, time.Now()), 0.001)
	assert.True(t, loan.Overdue(time.Now()))
	assert.False(t, loan.Active())

	// Partial overdue days don't count.
	almostLate := due.Add(23 * time.Hour)
	loan.ReturnDate = &almostLate
	assert.Equal(t, 0.0, loan.Fine(0.50, time.Now()))
}
