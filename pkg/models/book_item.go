package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Physical copy statuses. A copy is LOANED exactly while one open loan
// references it.
const (
	ItemAvailable = "AVAILABLE"
	ItemLoaned    = "LOANED"
)

type BookItem struct {
	bun.BaseModel `bun:"table:book_items,alias:bi"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Barcode      string    `bun:",nullzero" json:"barcode"`
	BookTitleID  int       `bun:",nullzero" json:"book_title_id"`
	Status       string    `bun:",nullzero" json:"status"`
	PurchaseDate time.Time `json:"purchase_date"`
	RackLocation *string   `json:"rack_location,omitempty"`

	// Lookup reference only. Removing a title does not cascade to its items,
	// so this can be nil for orphaned copies.
	BookTitle *BookTitle `bun:"rel:belongs-to,join:book_title_id=id" json:"book_title,omitempty"`
}
