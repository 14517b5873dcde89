package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Hold request statuses. Fulfillment is unimplemented; FULFILLED exists in the
// schema so the request log can represent it once fulfillment lands.
const (
	HoldPending   = "PENDING"
	HoldCanceled  = "CANCELED"
	HoldFulfilled = "FULFILLED"
)

// HoldRequest reserves a title, not a specific copy.
type HoldRequest struct {
	bun.BaseModel `bun:"table:hold_requests,alias:hr"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	BorrowerID  int       `bun:",nullzero" json:"borrower_id"`
	BookTitleID int       `bun:",nullzero" json:"book_title_id"`
	RequestDate time.Time `json:"request_date"`
	Status      string    `bun:",nullzero" json:"status"`

	// Relations
	Borrower  *Person    `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
	BookTitle *BookTitle `bun:"rel:belongs-to,join:book_title_id=id" json:"book_title,omitempty"`
}
