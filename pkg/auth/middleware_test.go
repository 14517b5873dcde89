package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/migrations"
	"github.com/circdesk/circdesk/pkg/models"
)

func setupMiddlewareDB(t *testing.T) *bun.DB {
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

func createPersonWithRole(ctx context.Context, t *testing.T, db *bun.DB, role string) *models.Person {
	t.Helper()

	hash, err := HashPassword("password1234")
	require.NoError(t, err)

	person := &models.Person{
		Name:         "test " + role,
		PasswordHash: hash,
		RoleName:     role,
	}
	_, err = db.NewInsert().Model(person).Exec(ctx)
	require.NoError(t, err)

	return person
}

func TestMiddlewareAuthenticate_NoCookie(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	middleware := NewMiddleware(NewService(db, "test-secret"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/titles", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	err := middleware.Authenticate(func(_ echo.Context) error {
		nextCalled = true
		return nil
	})(c)
	require.Error(t, err)
	assert.False(t, nextCalled)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "unauthorized", codeErr.Code)
}

func TestMiddlewareAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	authService := NewService(db, "test-secret")
	middleware := NewMiddleware(authService)
	ctx := context.Background()

	person := createPersonWithRole(ctx, t, db, models.RoleMember)
	token, err := authService.GenerateToken(person)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/titles", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	err = middleware.Authenticate(func(c echo.Context) error {
		nextCalled = true
		authed, ok := PersonFromContext(c)
		require.True(t, ok)
		assert.Equal(t, person.ID, authed.ID)
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, nextCalled)
}

func TestMiddlewareRequirePermission_MemberDeniedLoanWrites(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	authService := NewService(db, "test-secret")
	middleware := NewMiddleware(authService)
	ctx := context.Background()

	member := createPersonWithRole(ctx, t, db, models.RoleMember)
	loaded, err := authService.GetPersonByID(ctx, member.ID)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/loans/issue", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyPerson, loaded)

	nextCalled := false
	err = middleware.RequirePermission(models.ResourceLoans, models.OperationWrite)(func(_ echo.Context) error {
		nextCalled = true
		return nil
	})(c)
	require.Error(t, err)
	assert.False(t, nextCalled)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "forbidden", codeErr.Code)
}

func TestMiddlewareRequirePermission_StaffAllowedLoanWrites(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	authService := NewService(db, "test-secret")
	middleware := NewMiddleware(authService)
	ctx := context.Background()

	staff := createPersonWithRole(ctx, t, db, models.RoleStaff)
	loaded, err := authService.GetPersonByID(ctx, staff.ID)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/loans/issue", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyPerson, loaded)

	nextCalled := false
	err = middleware.RequirePermission(models.ResourceLoans, models.OperationWrite)(func(_ echo.Context) error {
		nextCalled = true
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, nextCalled)
}

func TestMiddlewareRequirePermission_FailsClosedWithoutPerson(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	middleware := NewMiddleware(NewService(db, "test-secret"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/loans/issue", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := middleware.RequirePermission(models.ResourceLoans, models.OperationWrite)(func(_ echo.Context) error {
		return nil
	})(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "unauthorized", codeErr.Code)
}
