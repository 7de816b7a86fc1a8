package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID, loading items and timeline
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.preloaded(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its human-facing number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := r.preloaded(ctx).First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByCustomer finds a customer's orders, paginated
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	return r.findPaginated(ctx, "customer_id = ?", customerID, filter)
}

// FindByVendor finds a vendor's orders, paginated
func (r *GormOrderRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	return r.findPaginated(ctx, "vendor_id = ?", vendorID, filter)
}

// FindDeliveredByVendor finds all delivered orders for a vendor.
// Items and timeline are not loaded; callers only need totals.
func (r *GormOrderRepository) FindDeliveredByVendor(ctx context.Context, vendorID uuid.UUID) ([]order.Order, error) {
	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND status = ?", vendorID, order.StatusDelivered).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) findPaginated(ctx context.Context, cond string, id uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	query := r.db.WithContext(ctx).Model(&order.Order{}).Where(cond, id)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []order.Order
	if err := applyFilter(query.Preload("Items"), filter).Find(&orders).Error; err != nil {
		return nil, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if pageSize <= 0 {
		page, pageSize = 1, len(orders)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	result := shared.NewPaginated(orders, total, page, pageSize)
	return &result, nil
}

// Save creates or updates an order together with its items and timeline
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(o).Error
}

// SaveWithLock updates an order only if the stored version still matches
// expectedVersion. A mismatch means another transaction won the race.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, expectedVersion).
			Update("version", o.Version)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
	})
}

// GetStats computes the per-vendor order aggregate in a single query
func (r *GormOrderRepository) GetStats(ctx context.Context, vendorID uuid.UUID, statsRange order.StatsRange) (*order.Stats, error) {
	var row struct {
		TotalOrders     int64
		TotalRevenue    decimal.Decimal
		PendingOrders   int64
		CompletedOrders int64
		CancelledOrders int64
	}

	query := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN status = 'delivered' THEN pricing_total ELSE 0 END), 0) AS total_revenue,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_orders,
			COUNT(CASE WHEN status = 'delivered' THEN 1 END) AS completed_orders,
			COUNT(CASE WHEN status = 'cancelled' THEN 1 END) AS cancelled_orders`).
		Where("vendor_id = ?", vendorID)

	if statsRange.From != nil {
		query = query.Where("created_at >= ?", *statsRange.From)
	}
	if statsRange.To != nil {
		query = query.Where("created_at <= ?", *statsRange.To)
	}

	if err := query.Scan(&row).Error; err != nil {
		return nil, err
	}

	revenue := valueobject.NewMoneyUSD(row.TotalRevenue)
	average := valueobject.ZeroUSD()
	if row.CompletedOrders > 0 {
		average = valueobject.NewMoneyUSD(
			row.TotalRevenue.Div(decimal.NewFromInt(row.CompletedOrders)).Round(2),
		)
	}

	return &order.Stats{
		TotalOrders:       row.TotalOrders,
		TotalRevenue:      revenue,
		AverageOrderValue: average,
		PendingOrders:     row.PendingOrders,
		CompletedOrders:   row.CompletedOrders,
		CancelledOrders:   row.CancelledOrders,
	}, nil
}

// Count counts all orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		})
}

var _ order.Repository = (*GormOrderRepository)(nil)
