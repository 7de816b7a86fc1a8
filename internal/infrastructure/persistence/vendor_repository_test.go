package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/vendor"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockVendorRepository(t *testing.T) (*GormVendorRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormVendorRepository(gormDB), mock, mockDB
}

func newStoredVendor(t *testing.T) *vendor.Vendor {
	t.Helper()

	v, err := vendor.NewVendor(
		uuid.New(),
		"Acme Electronics",
		vendor.BusinessTypeCompany,
		vendor.ContactInfo{Email: "owner@acme.test", Phone: "555-0100"},
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return v
}

func TestGormVendorRepository_FindByID(t *testing.T) {
	t.Run("finds existing vendor", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		vendorID := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "user_id", "business_name", "business_type", "status",
			"commission_rate", "version",
		}).AddRow(
			vendorID, userID, "Acme Electronics", "company", "approved",
			decimal.NewFromInt(10), 2,
		)

		mock.ExpectQuery(`SELECT \* FROM "vendors" WHERE id = \$1`).
			WithArgs(vendorID, 1).
			WillReturnRows(rows)

		v, err := repo.FindByID(context.Background(), vendorID)

		assert.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, vendorID, v.ID)
		assert.Equal(t, vendor.StatusApproved, v.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing vendor", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		vendorID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "vendors" WHERE id = \$1`).
			WithArgs(vendorID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		v, err := repo.FindByID(context.Background(), vendorID)

		assert.Nil(t, v)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormVendorRepository_ExistsByUserID(t *testing.T) {
	t.Run("returns true when user already has a vendor account", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "vendors" WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByUserID(context.Background(), userID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when none exists", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "vendors" WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByUserID(context.Background(), userID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormVendorRepository_SaveWithLock(t *testing.T) {
	t.Run("saves when stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		v := newStoredVendor(t)
		v.Approve(time.Now())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "vendors" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "vendors" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLock(context.Background(), v, 1)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns concurrency conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		v := newStoredVendor(t)
		v.Approve(time.Now())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "vendors" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), v, 1)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormVendorRepository_Delete(t *testing.T) {
	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockVendorRepository(t)
		defer mockDB.Close()

		vendorID := uuid.New()

		mock.ExpectExec(`DELETE FROM "vendors" WHERE id = \$1`).
			WithArgs(vendorID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), vendorID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormVendorRepository_InterfaceCompliance(t *testing.T) {
	repo, _, mockDB := newMockVendorRepository(t)
	defer mockDB.Close()

	var _ vendor.Repository = repo
}
