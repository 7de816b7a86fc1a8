package handler

import (
	"github.com/gin-gonic/gin"

	reviewapp "github.com/marketplace/backend/internal/application/review"
)

// ReviewHandler handles product review API endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes on the API group
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.Submit)
	rg.GET("/vendors/:id/reviews", h.ListByVendor)
	rg.GET("/products/:id/reviews", h.ListByProduct)
}

// Submit godoc
// @Summary      Submit review
// @Description  Record a 1-5 star review for a product. Vendor rating aggregates pick it up on the next stats refresh.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body reviewapp.SubmitReviewRequest true "Review submission"
// @Success      201 {object} dto.Response{data=reviewapp.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req reviewapp.SubmitReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, review)
}

// ListByVendor godoc
// @Summary      List a vendor's reviews
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]reviewapp.ReviewResponse}
// @Router       /vendors/{id}/reviews [get]
func (h *ReviewHandler) ListByVendor(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByVendor(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reviews)
}

// ListByProduct godoc
// @Summary      List a product's reviews
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]reviewapp.ReviewResponse}
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reviews)
}
