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
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormOrderRepository(gormDB), mock, mockDB
}

func newStoredOrder(t *testing.T) *order.Order {
	t.Helper()

	item, err := order.NewOrderItem(uuid.New(), "Mechanical Keyboard", "",
		valueobject.NewMoneyUSDFromFloat(100), 2, "", "KB-01")
	require.NoError(t, err)

	addr, err := valueobject.NewAddress("Ada Lovelace", "1 Main St", "Springfield", "62701", "US")
	require.NoError(t, err)

	o, err := order.NewOrder(
		"ORD-1700000000000-0001",
		uuid.New(),
		uuid.New(),
		[]order.OrderItem{item},
		valueobject.NewMoneyUSDFromFloat(10),
		valueobject.NewMoneyUSDFromFloat(5),
		valueobject.ZeroUSD(),
		addr,
		addr,
		order.PaymentMethodStripe,
		decimal.NewFromInt(10),
		"",
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_FindDeliveredByVendor(t *testing.T) {
	t.Run("finds delivered orders", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		vendorID := uuid.New()
		orderID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "order_number", "customer_id", "vendor_id", "status",
			"pricing_total", "commission_rate", "commission_amount", "version",
		}).AddRow(
			orderID, "ORD-1700000000000-0001", uuid.New(), vendorID, "delivered",
			"215.00", decimal.NewFromInt(10), "21.50", 5,
		)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE vendor_id = \$1 AND status = \$2`).
			WithArgs(vendorID, order.StatusDelivered).
			WillReturnRows(rows)

		orders, err := repo.FindDeliveredByVendor(context.Background(), vendorID)

		assert.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, orderID, orders[0].ID)
		assert.Equal(t, "215.00", orders[0].Pricing.Total.StringFixed(2))
		assert.Equal(t, "21.50", orders[0].Commission.Amount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByOrderNumber(t *testing.T) {
	t.Run("returns not found for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1`).
			WithArgs("ORD-0-0000", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByOrderNumber(context.Background(), "ORD-0-0000")

		assert.Nil(t, o)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("returns concurrency conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o := newStoredOrder(t)
		require.NoError(t, o.UpdateStatus(order.StatusConfirmed, "", "vendor", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), o, 1)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_GetStats(t *testing.T) {
	t.Run("computes vendor aggregate", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		vendorID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"total_orders", "total_revenue", "pending_orders", "completed_orders", "cancelled_orders",
		}).AddRow(10, "430.00", 3, 2, 1)

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_orders`).
			WithArgs(vendorID).
			WillReturnRows(rows)

		stats, err := repo.GetStats(context.Background(), vendorID, order.StatsRange{})

		assert.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, int64(10), stats.TotalOrders)
		assert.Equal(t, "430.00", stats.TotalRevenue.StringFixed(2))
		assert.Equal(t, "215.00", stats.AverageOrderValue.StringFixed(2))
		assert.Equal(t, int64(3), stats.PendingOrders)
		assert.Equal(t, int64(2), stats.CompletedOrders)
		assert.Equal(t, int64(1), stats.CancelledOrders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies date range bounds", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		vendorID := uuid.New()
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

		rows := sqlmock.NewRows([]string{
			"total_orders", "total_revenue", "pending_orders", "completed_orders", "cancelled_orders",
		}).AddRow(0, "0", 0, 0, 0)

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_orders`).
			WithArgs(vendorID, from, to).
			WillReturnRows(rows)

		stats, err := repo.GetStats(context.Background(), vendorID, order.StatsRange{From: &from, To: &to})

		assert.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, int64(0), stats.TotalOrders)
		assert.True(t, stats.AverageOrderValue.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_InterfaceCompliance(t *testing.T) {
	repo, _, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	var _ order.Repository = repo
}
