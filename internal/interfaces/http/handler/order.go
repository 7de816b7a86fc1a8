package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes on the API group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Place)
	orders.GET("/number/:number", h.GetByOrderNumber)
	orders.GET("/:id", h.GetByID)
	orders.PUT("/:id/status", h.UpdateStatus)
	orders.POST("/:id/cancel", h.Cancel)
	orders.POST("/:id/return", h.RequestReturn)
	orders.POST("/:id/return/approve", h.ApproveReturn)
	orders.POST("/:id/return/reject", h.RejectReturn)

	rg.GET("/customers/:id/orders", h.ListByCustomer)
	rg.GET("/vendors/:id/orders", h.ListByVendor)
	rg.GET("/vendors/:id/orders/stats", h.GetStats)
	rg.GET("/vendors/:id/commission", h.GetCommission)
}

// ApproveReturnRequest identifies who approved a return
type ApproveReturnRequest struct {
	ApprovedBy string `json:"approved_by" binding:"max=100"`
}

// CommissionResponse reports accumulated commission for a vendor
type CommissionResponse struct {
	VendorID   uuid.UUID `json:"vendor_id"`
	Commission string    `json:"commission"`
	Currency   string    `json:"currency"`
}

// Place godoc
// @Summary      Place order
// @Description  Place an order from a cart. Items are split into one order per vendor.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PlaceOrderRequest true "Order placement request"
// @Success      201 {object} dto.Response{data=[]orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	var req orderapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	orders, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, orders)
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderNumber godoc
// @Summary      Get order by order number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/number/{number} [get]
func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListByCustomer godoc
// @Summary      List a customer's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter"
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse}
// @Router       /customers/{id}/orders [get]
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.ListByCustomer(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, dto.PaginatedMeta(page))
}

// ListByVendor godoc
// @Summary      List a vendor's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter"
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse}
// @Router       /vendors/{id}/orders [get]
func (h *OrderHandler) ListByVendor(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.ListByVendor(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, dto.PaginatedMeta(page))
}

// UpdateStatus godoc
// @Summary      Update order status
// @Description  Advance an order through its fulfillment lifecycle
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.UpdateOrderStatusRequest true "Status update request"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel order
// @Description  Cancel an order that has not yet shipped
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.CancelOrderRequest true "Cancellation request"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RequestReturn godoc
// @Summary      Request return
// @Description  Request a return for a delivered order within the vendor's return window
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.ReturnRequest true "Return request"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/return [post]
func (h *OrderHandler) RequestReturn(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.ReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.RequestReturn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ApproveReturn godoc
// @Summary      Approve return
// @Description  Approve a requested return and move the order to returned
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ApproveReturnRequest false "Approval request"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/return/approve [post]
func (h *OrderHandler) ApproveReturn(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ApproveReturnRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.ApproveReturn(c.Request.Context(), id, req.ApprovedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RejectReturn godoc
// @Summary      Reject return
// @Description  Reject a requested return and keep the order delivered
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.RejectReturnRequest true "Rejection request"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/return/reject [post]
func (h *OrderHandler) RejectReturn(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.RejectReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.RejectReturn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetStats godoc
// @Summary      Get vendor order statistics
// @Description  Retrieve order counts and revenue for a vendor, optionally within a date range
// @Tags         orders
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        from query string false "Start date (inclusive)" format(date)
// @Param        to query string false "End date (inclusive)" format(date)
// @Success      200 {object} dto.Response{data=orderapp.StatsResponse}
// @Router       /vendors/{id}/orders/stats [get]
func (h *OrderHandler) GetStats(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var query orderapp.StatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.orderService.GetStats(c.Request.Context(), id, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetCommission godoc
// @Summary      Get vendor commission
// @Description  Retrieve the commission accumulated across a vendor's delivered orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=CommissionResponse}
// @Router       /vendors/{id}/commission [get]
func (h *OrderHandler) GetCommission(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	commission, err := h.orderService.GetVendorCommission(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CommissionResponse{
		VendorID:   id,
		Commission: commission.StringFixed(2),
		Currency:   string(commission.Currency()),
	})
}
