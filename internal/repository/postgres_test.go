package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"travelhub/internal/domain"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_Postgres_UniqueViolation(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	u := domain.User{IdentityID: "id-1", Email: "dup@example.com", Name: "Dup", Role: domain.RoleAgent}
	err := repo.Create(context.Background(), &u)

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackageRepository_Postgres_LocksForUpdate(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewPackageRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "packages" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "status", "publish_status"}).
			AddRow(1, "a", "pending", "draft").
			AddRow(2, "b", "pending", "draft"))

	got, err := repo.GetByIDsForUpdate(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, domain.PackagePending, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
