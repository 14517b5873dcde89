package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Loan struct {
	bun.BaseModel `bun:"table:loans,alias:l"`

	ID         int        `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Reference  string     `bun:",nullzero" json:"reference"`
	BorrowerID int        `bun:",nullzero" json:"borrower_id"`
	BookItemID int        `bun:",nullzero" json:"book_item_id"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`

	// Relations
	Borrower *Person   `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	BookItem *BookItem `bun:"rel:belongs-to,join:book_item_id=id" json:"book_item,omitempty"`
}

// Active reports whether the loan is still open. The return date is the only
// authority here; there is no separate status column to drift out of sync.
func (l *Loan) Active() bool {
	return l.ReturnDate == nil
}

// Overdue reports whether the loan ran (or is running) past its due date as of
// now. For closed loans the return date is used instead of now.
func (l *Loan) Overdue(now time.Time) bool {
	end := now
	if l.ReturnDate != nil {
		end = *l.ReturnDate
	}
	return end.After(l.DueDate)
}

// Fine computes the accrued fine at the given daily rate. It is always derived
// and never persisted, so previewing an open loan and settling a closed one go
// through the same arithmetic. Partial overdue days don't count.
func (l *Loan) Fine(dailyRate float64, now time.Time) float64 {
	end := now
	if l.ReturnDate != nil {
		end = *l.ReturnDate
	}

	daysOverdue := int(end.Sub(l.DueDate).Hours() / 24)
	if daysOverdue < 0 {
		daysOverdue = 0
	}

	return float64(daysOverdue) * dailyRate
}
