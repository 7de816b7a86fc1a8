package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/review"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ReviewService handles product review submission and listing. Rating
// aggregates are not updated here; the vendor stats refresh picks new
// reviews up on its next run.
type ReviewService struct {
	reviewRepo review.Repository
	clock      shared.Clock
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo review.Repository, clock shared.Clock) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		clock:      clock,
	}
}

// Submit records a review for a product
func (s *ReviewService) Submit(ctx context.Context, req SubmitReviewRequest) (*ReviewResponse, error) {
	r, err := review.NewReview(req.VendorID, req.ProductID, req.CustomerID, req.Rating, req.Comment, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	return &response, nil
}

// ListByVendor retrieves all reviews across a vendor's products
func (s *ReviewService) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return ToReviewResponses(reviews), nil
}

// ListByProduct retrieves all reviews for a product
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToReviewResponses(reviews), nil
}
