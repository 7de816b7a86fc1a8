package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/review"
)

// SubmitReviewRequest represents a review submission
type SubmitReviewRequest struct {
	VendorID   uuid.UUID `json:"vendor_id" binding:"required"`
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	Comment    string    `json:"comment" binding:"max=2000"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	VendorID   uuid.UUID `json:"vendor_id"`
	ProductID  uuid.UUID `json:"product_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToReviewResponse converts a domain review to a response DTO
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		VendorID:   r.VendorID,
		ProductID:  r.ProductID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// ToReviewResponses converts a slice of domain reviews
func ToReviewResponses(reviews []review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}
