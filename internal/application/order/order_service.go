package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/vendor"
)

// OrderService handles order business operations
type OrderService struct {
	orderRepo  order.Repository
	vendorRepo vendor.Repository
	numberGen  *order.NumberGenerator
	clock      shared.Clock
	// marketplace-wide return window for vendors without a policy of
	// their own; zero defers to the domain default
	returnWindowDays int
}

// OrderServiceOption configures an OrderService
type OrderServiceOption func(*OrderService)

// WithReturnWindowFallback overrides the marketplace-wide return window
// applied when a vendor has not set one
func WithReturnWindowFallback(days int) OrderServiceOption {
	return func(s *OrderService) {
		s.returnWindowDays = days
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.Repository,
	vendorRepo vendor.Repository,
	numberGen *order.NumberGenerator,
	clock shared.Clock,
	opts ...OrderServiceOption,
) *OrderService {
	s := &OrderService{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		numberGen:  numberGen,
		clock:      clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder checks out a cart. Items are grouped by vendor in the
// order they first appear, and one Order is created per vendor. Each
// order locks its vendor's commission rate at this moment; later rate
// changes never touch it.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) ([]OrderResponse, error) {
	shippingAddress, err := req.ShippingAddress.toAddress()
	if err != nil {
		return nil, err
	}
	billingAddress := shippingAddress
	if req.BillingAddress != nil {
		billingAddress, err = req.BillingAddress.toAddress()
		if err != nil {
			return nil, err
		}
	}

	// group cart lines per vendor, keeping first-appearance order
	vendorIDs := make([]uuid.UUID, 0)
	grouped := make(map[uuid.UUID][]CartItemInput)
	for _, item := range req.Items {
		if _, seen := grouped[item.VendorID]; !seen {
			vendorIDs = append(vendorIDs, item.VendorID)
		}
		grouped[item.VendorID] = append(grouped[item.VendorID], item)
	}

	now := s.clock.Now()
	responses := make([]OrderResponse, 0, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		v, err := s.vendorRepo.FindByID(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		if !v.IsApproved() {
			return nil, shared.NewDomainError(shared.KindInvalidState, "VENDOR_NOT_ACTIVE",
				fmt.Sprintf("vendor %s is not accepting orders", v.BusinessName))
		}

		items := make([]order.OrderItem, 0, len(grouped[vendorID]))
		subtotal := valueobject.ZeroUSD()
		for _, line := range grouped[vendorID] {
			item, err := order.NewOrderItem(
				line.ProductID, line.Name, line.Image,
				valueobject.NewMoneyUSD(line.Price), line.Quantity,
				line.Variant, line.SKU,
			)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			subtotal = subtotal.MustAdd(item.Subtotal)
		}

		tax := subtotal.CalculatePercentage(req.TaxRate).Round(2)
		shipping := valueobject.NewMoneyUSD(req.ShippingFee)

		o, err := order.NewOrder(
			s.numberGen.Next(),
			req.CustomerID, vendorID,
			items,
			tax, shipping, valueobject.ZeroUSD(),
			shippingAddress, billingAddress,
			order.PaymentMethod(req.PaymentMethod),
			v.CommissionRate,
			req.CouponCode,
			now,
		)
		if err != nil {
			return nil, err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return nil, err
		}
		responses = append(responses, ToOrderResponse(o))
	}

	return responses, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByOrderNumber retrieves an order by its order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListByVendor retrieves a vendor's orders with pagination
func (s *OrderService) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindByVendor(ctx, vendorID, filter)
	if err != nil {
		return nil, err
	}
	return mapPage(page, filter), nil
}

// ListByCustomer retrieves a customer's orders with pagination
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	return mapPage(page, filter), nil
}

// UpdateStatus moves an order along its lifecycle with optimistic
// locking. On a concurrent modification the caller receives
// shared.ErrConcurrencyConflict and may retry.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := o.Version
	if err := o.UpdateStatus(order.Status(req.Status), req.Message, req.UpdatedBy, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order that has not yet entered fulfilment
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.CanBeCancelled() {
		return nil, shared.NewDomainError(shared.KindInvalidState, "ORDER_NOT_CANCELLABLE",
			fmt.Sprintf("order in status %s can no longer be cancelled", o.Status))
	}

	expectedVersion := o.Version
	if err := o.Cancel(req.Reason, req.CancelledBy, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// RequestReturn opens a return request. The return window is the
// vendor's own policy when set, otherwise the marketplace default.
func (s *OrderService) RequestReturn(ctx context.Context, id uuid.UUID, req ReturnRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.vendorRepo.FindByID(ctx, o.VendorID)
	if err != nil {
		return nil, err
	}

	windowDays := v.ReturnPolicy.PeriodDays
	if windowDays <= 0 {
		windowDays = s.returnWindowDays
	}

	expectedVersion := o.Version
	if err := o.RequestReturn(req.Reason, s.clock.Now(), windowDays); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ApproveReturn approves a pending return and moves the order to returned
func (s *OrderService) ApproveReturn(ctx context.Context, id uuid.UUID, approvedBy string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := o.Version
	if err := o.ApproveReturn(approvedBy, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// RejectReturn rejects a pending return; the order stays delivered
func (s *OrderService) RejectReturn(ctx context.Context, id uuid.UUID, req RejectReturnRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := o.Version
	if err := o.RejectReturn(req.Reason, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o, expectedVersion); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetStats returns per-vendor order statistics, optionally restricted
// to a creation date range
func (s *OrderService) GetStats(ctx context.Context, vendorID uuid.UUID, query StatsQuery) (*StatsResponse, error) {
	stats, err := s.orderRepo.GetStats(ctx, vendorID, order.StatsRange{From: query.From, To: query.To})
	if err != nil {
		return nil, err
	}
	response := ToStatsResponse(stats)
	return &response, nil
}

// GetVendorCommission sums the locked commission amounts over a
// vendor's delivered orders
func (s *OrderService) GetVendorCommission(ctx context.Context, vendorID uuid.UUID) (valueobject.Money, error) {
	delivered, err := s.orderRepo.FindDeliveredByVendor(ctx, vendorID)
	if err != nil {
		return valueobject.ZeroUSD(), err
	}

	amounts := make([]valueobject.Money, len(delivered))
	for i := range delivered {
		amounts[i] = delivered[i].Commission.Amount
	}
	return vendor.SumCommissions(amounts), nil
}

func mapPage(page *shared.Paginated[order.Order], filter shared.Filter) *shared.Paginated[OrderResponse] {
	mapped := shared.NewPaginated(ToOrderResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &mapped
}
