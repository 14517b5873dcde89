package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookTitle struct {
	bun.BaseModel `bun:"table:book_titles,alias:bt"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ISBN      string    `bun:"isbn,nullzero" json:"isbn"`
	Title     string    `bun:",nullzero" json:"title"`
	Genre     string    `json:"genre"`
	Publisher string    `json:"publisher"`

	// Relations
	Authors []*TitleAuthor `bun:"rel:has-many,join:id=book_title_id" json:"authors,omitempty"`
}
