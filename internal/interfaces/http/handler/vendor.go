package handler

import (
	"github.com/gin-gonic/gin"

	vendorapp "github.com/marketplace/backend/internal/application/vendor"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// VendorHandler handles vendor account API endpoints
type VendorHandler struct {
	BaseHandler
	vendorService *vendorapp.VendorService
	statsService  *vendorapp.StatsService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *vendorapp.VendorService, statsService *vendorapp.StatsService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		statsService:  statsService,
	}
}

// RegisterRoutes registers vendor routes on the API group
func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vendors := rg.Group("/vendors")
	vendors.POST("", h.Apply)
	vendors.GET("", h.List)
	vendors.GET("/user/:userId", h.GetByUserID)
	vendors.GET("/:id", h.GetByID)
	vendors.POST("/:id/approve", h.Approve)
	vendors.POST("/:id/reject", h.Reject)
	vendors.POST("/:id/suspend", h.Suspend)
	vendors.PUT("/:id/commission-rate", h.UpdateCommissionRate)
	vendors.PUT("/:id/return-policy", h.UpdateReturnPolicy)
	vendors.POST("/:id/stats/refresh", h.RefreshStats)
}

// Apply godoc
// @Summary      Apply to become a vendor
// @Description  Submit a vendor application. One application per user.
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        request body vendorapp.ApplyVendorRequest true "Vendor application"
// @Success      201 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors [post]
func (h *VendorHandler) Apply(c *gin.Context) {
	var req vendorapp.ApplyVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Apply(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, vendor)
}

// GetByID godoc
// @Summary      Get vendor by ID
// @Tags         vendors
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// GetByUserID godoc
// @Summary      Get the vendor account belonging to a user
// @Tags         vendors
// @Produce      json
// @Param        userId path string true "User ID" format(uuid)
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/user/{userId} [get]
func (h *VendorHandler) GetByUserID(c *gin.Context) {
	userID, ok := h.parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// List godoc
// @Summary      List vendors
// @Description  Retrieve a paginated vendor list, optionally filtered by status
// @Tags         vendors
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status filter" Enums(pending, approved, rejected, suspended)
// @Success      200 {object} dto.Response{data=[]vendorapp.VendorResponse}
// @Router       /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.vendorService.List(c.Request.Context(), req.Status, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, dto.PaginatedMeta(page))
}

// Approve godoc
// @Summary      Approve vendor
// @Description  Approve a pending application or reinstate a suspended vendor
// @Tags         vendors
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id}/approve [post]
func (h *VendorHandler) Approve(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// Reject godoc
// @Summary      Reject vendor application
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body vendorapp.RejectVendorRequest true "Rejection request"
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id}/reject [post]
func (h *VendorHandler) Reject(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req vendorapp.RejectVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// Suspend godoc
// @Summary      Suspend vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body vendorapp.SuspendVendorRequest true "Suspension request"
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id}/suspend [post]
func (h *VendorHandler) Suspend(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req vendorapp.SuspendVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Suspend(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// UpdateCommissionRate godoc
// @Summary      Update vendor commission rate
// @Description  Set the vendor's marketplace cut. Existing orders keep their locked rate.
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body vendorapp.UpdateCommissionRateRequest true "Commission rate request"
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id}/commission-rate [put]
func (h *VendorHandler) UpdateCommissionRate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req vendorapp.UpdateCommissionRateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.UpdateCommissionRate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// UpdateReturnPolicy godoc
// @Summary      Update vendor return policy
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body vendorapp.UpdateReturnPolicyRequest true "Return policy request"
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id}/return-policy [put]
func (h *VendorHandler) UpdateReturnPolicy(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req vendorapp.UpdateReturnPolicyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.UpdateReturnPolicy(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// RefreshStats godoc
// @Summary      Refresh vendor statistics
// @Description  Recompute the vendor's product, order, revenue and rating aggregates
// @Tags         vendors
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=vendorapp.VendorResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /vendors/{id}/stats/refresh [post]
func (h *VendorHandler) RefreshStats(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.statsService.Refresh(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}
