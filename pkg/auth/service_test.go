package auth

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

func TestServiceCreateFirstAdmin_OnlyOnce(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	admin, err := svc.CreateFirstAdmin(ctx, "Head Librarian", "password1234", "head@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.RoleName)

	_, err = svc.CreateFirstAdmin(ctx, "Intruder", "password1234", "")
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "forbidden", e.Code)
}

func TestServiceAuthenticate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	admin, err := svc.CreateFirstAdmin(ctx, "Head Librarian", "password1234", "")
	require.NoError(t, err)

	person, err := svc.Authenticate(ctx, admin.ID, "password1234")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, person.ID)
	require.NotNil(t, person.Role)
	assert.True(t, person.HasPermission(models.ResourcePeople, models.OperationWrite))

	_, err = svc.Authenticate(ctx, admin.ID, "wrongpassword")
	require.Error(t, err)

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "unauthorized", e.Code)

	_, err = svc.Authenticate(ctx, 999, "password1234")
	require.Error(t, err)
}

func TestServiceTokenRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	admin, err := svc.CreateFirstAdmin(ctx, "Head Librarian", "password1234", "")
	require.NoError(t, err)

	token, err := svc.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.PersonID)
	assert.Equal(t, admin.Name, claims.Name)

	// A token signed with a different secret is rejected.
	otherSvc := NewService(db, "other-secret")
	_, err = otherSvc.ValidateToken(token)
	require.Error(t, err)
}

type plaintextVerifier struct{}

func (plaintextVerifier) Verify(password, hash string) bool {
	return password == hash
}

func TestServiceWithVerifier_CustomScheme(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewServiceWithVerifier(db, "test-secret", plaintextVerifier{})
	ctx := context.Background()

	person := &models.Person{
		Name:         "legacy import",
		PasswordHash: "legacy-password",
		RoleName:     models.RoleMember,
	}
	_, err := db.NewInsert().Model(person).Exec(ctx)
	require.NoError(t, err)

	authed, err := svc.Authenticate(ctx, person.ID, "legacy-password")
	require.NoError(t, err)
	assert.Equal(t, person.ID, authed.ID)

	_, err = svc.Authenticate(ctx, person.ID, "bcrypt-hash-expected")
	require.Error(t, err)
}
