package roles

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

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

func TestServiceListRoles_SeededSet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 4)

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
		assert.NotEmpty(t, role.Permissions)
	}
	assert.Contains(t, names, models.RoleMember)
	assert.Contains(t, names, models.RoleStaff)
	assert.Contains(t, names, models.RoleLibrarian)
	assert.Contains(t, names, models.RoleAdmin)
}

func TestServiceRetrieveRole_Grants(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	member, err := svc.RetrieveRole(ctx, models.RoleMember)
	require.NoError(t, err)
	assert.True(t, member.HasPermission(models.ResourceHolds, models.OperationWrite))
	assert.False(t, member.HasPermission(models.ResourceLoans, models.OperationWrite))

	librarian, err := svc.RetrieveRole(ctx, models.RoleLibrarian)
	require.NoError(t, err)
	assert.True(t, librarian.HasPermission(models.ResourceLoans, models.OperationWrite))
	assert.False(t, librarian.HasPermission(models.ResourcePeople, models.OperationWrite))

	_, err = svc.RetrieveRole(ctx, "UNKNOWN")
	require.Error(t, err)
}
