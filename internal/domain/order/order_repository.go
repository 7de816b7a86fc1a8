package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// StatsRange restricts a stats query to orders created within [From, To].
// Nil bounds are open.
type StatsRange struct {
	From *time.Time
	To   *time.Time
}

// Stats is the per-vendor order aggregate. CompletedOrders counts
// delivered orders; TotalRevenue sums delivered order totals.
type Stats struct {
	TotalOrders       int64             `json:"total_orders"`
	TotalRevenue      valueobject.Money `json:"total_revenue"`
	AverageOrderValue valueobject.Money `json:"average_order_value"`
	PendingOrders     int64             `json:"pending_orders"`
	CompletedOrders   int64             `json:"completed_orders"`
	CancelledOrders   int64             `json:"cancelled_orders"`
}

// Repository defines the persistence port for orders.
// Orders are never deleted; a terminal status is the only end state.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)
	FindDeliveredByVendor(ctx context.Context, vendorID uuid.UUID) ([]Order, error)
	Save(ctx context.Context, o *Order) error
	SaveWithLock(ctx context.Context, o *Order, expectedVersion int) error
	GetStats(ctx context.Context, vendorID uuid.UUID, statsRange StatsRange) (*Stats, error)
	Count(ctx context.Context) (int64, error)
}
