package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/migrations"
	"github.com/circdesk/circdesk/pkg/models"
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

func TestServiceCreateTitle_DuplicateISBN(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780441007318", Title: "The Left Hand of Darkness"})
	require.NoError(t, err)

	_, err = svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780441007318", Title: "Some Other Title"})
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "duplicate_key", e.Code)

	// The rejected create leaves the catalog unchanged.
	titles, total, err := svc.ListTitles(ctx, ListTitlesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "The Left Hand of Darkness", titles[0].Title)
}

func TestServiceCreateTitle_AuthorOrderPreserved(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	second, err := svc.CreateAuthor(ctx, "Second Author")
	require.NoError(t, err)
	first, err := svc.CreateAuthor(ctx, "First Author")
	require.NoError(t, err)

	title, err := svc.CreateTitle(ctx, CreateTitleOptions{
		ISBN:      "9780000000100",
		Title:     "Coauthored Work",
		AuthorIDs: []int{first.ID, second.ID},
	})
	require.NoError(t, err)

	require.Len(t, title.Authors, 2)
	assert.Equal(t, "First Author", title.Authors[0].Author.Name)
	assert.Equal(t, "Second Author", title.Authors[1].Author.Name)
}

func TestServiceSearchKeyword_FirstMatchCaseInsensitive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780000000101", Title: "Deep Learning"})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780000000102", Title: "Learning Go"})
	require.NoError(t, err)

	title, err := svc.SearchKeyword(ctx, "LEARNING")
	require.NoError(t, err)
	assert.Equal(t, "Deep Learning", title.Title)

	_, err = svc.SearchKeyword(ctx, "nonexistent")
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "not_found", e.Code)
}

func TestServiceSearchKeyword_WildcardsMatchLiterally(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780000000105", Title: "Go 100x Faster"})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780000000106", Title: "Go 100% Faster"})
	require.NoError(t, err)

	// "%" in the keyword matches only a literal percent sign.
	title, err := svc.SearchKeyword(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, "Go 100% Faster", title.Title)

	_, err = svc.SearchKeyword(ctx, "100_")
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "not_found", e.Code)
}

func TestServiceRetrieveTitle_ByISBN(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	created, err := svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780000000103", Title: "Exact Lookup"})
	require.NoError(t, err)

	isbn := "9780000000103"
	found, err := svc.RetrieveTitle(ctx, RetrieveTitleOptions{ISBN: &isbn})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestServiceDeleteTitle_OrphansCopies(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, CreateTitleOptions{ISBN: "9780000000104", Title: "Soon Removed"})
	require.NoError(t, err)

	item := &models.BookItem{
		Barcode:     "BC-ORPHAN",
		BookTitleID: title.ID,
		Status:      models.ItemAvailable,
	}
	_, err = db.NewInsert().Model(item).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTitle(ctx, title.ID))

	_, err = svc.RetrieveTitle(ctx, RetrieveTitleOptions{ID: &title.ID})
	require.Error(t, err)

	// The copy survives, still pointing at the removed title.
	orphan := &models.BookItem{}
	err = db.NewSelect().Model(orphan).Where("bi.barcode = ?", "BC-ORPHAN").Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, title.ID, orphan.BookTitleID)
}

func TestServiceRenameAuthor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	author, err := svc.CreateAuthor(ctx, "Misspelled Name")
	require.NoError(t, err)

	require.NoError(t, svc.RenameAuthor(ctx, author, "Corrected Name"))

	found, err := svc.RetrieveAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corrected Name", found.Name)
}
