package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE hold_requests (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				borrower_id INTEGER REFERENCES persons (id) NOT NULL,
				book_title_id INTEGER REFERENCES book_titles (id) NOT NULL,
				request_date TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL DEFAULT 'PENDING'
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_hold_requests_borrower_id ON hold_requests (borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_hold_requests_book_title_id ON hold_requests (book_title_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DROP TABLE IF EXISTS hold_requests`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
