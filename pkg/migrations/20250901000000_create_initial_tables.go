package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_roles_name ON roles (name)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE permissions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				role_id INTEGER REFERENCES roles (id) NOT NULL,
				resource TEXT NOT NULL,
				operation TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_permissions_role_id_resource_operation ON permissions (role_id, resource, operation)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE persons (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				contact_info TEXT NOT NULL DEFAULT '',
				role TEXT REFERENCES roles (name) NOT NULL,
				account_status TEXT,
				max_book_limit INTEGER,
				salary REAL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_persons_role ON persons (role)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE book_titles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				isbn TEXT NOT NULL,
				title TEXT NOT NULL,
				genre TEXT NOT NULL DEFAULT '',
				publisher TEXT NOT NULL DEFAULT ''
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_book_titles_isbn ON book_titles (isbn)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE book_title_authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				book_title_id INTEGER REFERENCES book_titles (id) NOT NULL,
				author_id INTEGER REFERENCES authors (id) NOT NULL,
				sort_order INTEGER NOT NULL DEFAULT 0
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_title_authors_book_title_id ON book_title_authors (book_title_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_title_authors_author_id ON book_title_authors (author_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE book_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				barcode TEXT NOT NULL,
				book_title_id INTEGER REFERENCES book_titles (id) NOT NULL,
				status TEXT NOT NULL DEFAULT 'AVAILABLE',
				purchase_date TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_book_items_barcode ON book_items (barcode)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_book_items_book_title_id ON book_items (book_title_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE loans (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				reference TEXT NOT NULL,
				borrower_id INTEGER REFERENCES persons (id) NOT NULL,
				book_item_id INTEGER REFERENCES book_items (id) NOT NULL,
				issue_date TIMESTAMPTZ NOT NULL,
				due_date TIMESTAMPTZ NOT NULL,
				return_date TIMESTAMPTZ
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_loans_reference ON loans (reference)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_loans_borrower_id ON loans (borrower_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		// At most one open loan per copy.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_loans_open_book_item_id ON loans (book_item_id) WHERE return_date IS NULL`)
		if err != nil {
			return errors.WithStack(err)
		}

		// Seed the fixed role set and its capability grants.
		_, err = db.Exec(`INSERT INTO roles (name) VALUES ('MEMBER'), ('STAFF'), ('LIBRARIAN'), ('ADMIN')`)
		if err != nil {
			return errors.WithStack(err)
		}
		grants := []struct {
			roles     []string
			resource  string
			operation string
		}{
			{[]string{"MEMBER", "STAFF", "LIBRARIAN", "ADMIN"}, "catalog", "read"},
			{[]string{"MEMBER", "STAFF", "LIBRARIAN", "ADMIN"}, "inventory", "read"},
			{[]string{"MEMBER", "STAFF", "LIBRARIAN", "ADMIN"}, "loans", "read"},
			{[]string{"MEMBER", "STAFF", "LIBRARIAN", "ADMIN"}, "holds", "read"},
			{[]string{"MEMBER", "STAFF", "LIBRARIAN", "ADMIN"}, "holds", "write"},
			{[]string{"STAFF", "LIBRARIAN", "ADMIN"}, "loans", "write"},
			{[]string{"STAFF", "LIBRARIAN", "ADMIN"}, "people", "read"},
			{[]string{"ADMIN"}, "catalog", "write"},
			{[]string{"ADMIN"}, "inventory", "write"},
			{[]string{"ADMIN"}, "people", "write"},
		}
		for _, g := range grants {
			for _, role := range g.roles {
				_, err = db.Exec(`
					INSERT INTO permissions (role_id, resource, operation)
					SELECT id, ?, ? FROM roles WHERE name = ?
`, g.resource, g.operation, role)
				if err != nil {
					return errors.WithStack(err)
				}
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"loans", "book_items", "book_title_authors", "book_titles", "authors", "persons", "permissions", "roles"} {
			_, err := db.Exec(`DROP TABLE IF EXISTS ` + table)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
