package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/review"
	"github.com/marketplace/backend/internal/domain/shared"
)

var testClock = shared.FixedClock{Instant: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

// MockReviewRepository is a mock implementation of review.Repository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]review.Review, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]review.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(int64), args.Error(1)
}

func TestReviewService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a valid review", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := NewReviewService(repo, testClock)
		repo.On("Save", ctx, mock.AnythingOfType("*review.Review")).Return(nil)

		resp, err := service.Submit(ctx, SubmitReviewRequest{
			VendorID:   uuid.New(),
			ProductID:  uuid.New(),
			CustomerID: uuid.New(),
			Rating:     4,
			Comment:    "Solid build quality",
		})

		require.NoError(t, err)
		assert.Equal(t, 4, resp.Rating)
		assert.Equal(t, testClock.Now(), resp.CreatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := NewReviewService(repo, testClock)

		_, err := service.Submit(ctx, SubmitReviewRequest{
			VendorID:   uuid.New(),
			ProductID:  uuid.New(),
			CustomerID: uuid.New(),
			Rating:     6,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindValidation, domainErr.Kind)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestReviewService_ListByVendor(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReviewRepository)
	service := NewReviewService(repo, testClock)

	vendorID := uuid.New()
	stored, err := review.NewReview(vendorID, uuid.New(), uuid.New(), 5, "", testClock.Now())
	require.NoError(t, err)
	repo.On("FindByVendor", ctx, vendorID).Return([]review.Review{*stored}, nil)

	reviews, err := service.ListByVendor(ctx, vendorID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, vendorID, reviews[0].VendorID)
	assert.Equal(t, 5, reviews[0].Rating)
}
