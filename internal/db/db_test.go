package db

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/medspa-scheduler/internal/testutil"
)

func TestSeedAdmin_SkipsWithoutCredentials(t *testing.T) {
	gdb, _ := testutil.NewMockDB(t)

	require.NoError(t, SeedAdmin(gdb, "", "secret", nil))
	require.NoError(t, SeedAdmin(gdb, "admin", "", nil))
}

func TestSeedAdmin_SkipsWhenUsersExist(t *testing.T) {
	gdb, mock := testutil.NewMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	require.NoError(t, SeedAdmin(gdb, "admin", "secret", nil))
}

func TestSeedAdmin_CreatesAdmin(t *testing.T) {
	gdb, mock := testutil.NewMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WithArgs("admin", sqlmock.AnyArg(), "admin", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(t, SeedAdmin(gdb, "admin", "secret", nil))
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_reporting_views.up.sql")
	assert.Contains(t, names, "000002_daily_revenue.up.sql")
	assert.Contains(t, names, "000003_catalog_seed.up.sql")
	assert.Len(t, names, 6)
}
