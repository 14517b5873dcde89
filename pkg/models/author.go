package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}

// TitleAuthor links a catalog title to one of its authors. Authorship is
// shared: the same author row may appear on any number of titles.
type TitleAuthor struct {
	bun.BaseModel `bun:"table:book_title_authors,alias:ta"`

	ID          int     `bun:",pk,nullzero" json:"id"`
	BookTitleID int     `bun:",nullzero" json:"book_title_id"`
	AuthorID    int     `bun:",nullzero" json:"author_id"`
	Author      *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	SortOrder   int     `json:"sort_order"`
}
