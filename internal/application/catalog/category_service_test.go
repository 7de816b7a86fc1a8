package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testClock = shared.FixedClock{Instant: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindRoots(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Category, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, vendorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountActiveByCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountActiveByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeCountCache is an in-memory ProductCountCache for tests
type fakeCountCache struct {
	counts map[uuid.UUID]int64
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{counts: make(map[uuid.UUID]int64)}
}

func (c *fakeCountCache) Get(_ context.Context, categoryID uuid.UUID) (int64, bool) {
	count, ok := c.counts[categoryID]
	return count, ok
}

func (c *fakeCountCache) Set(_ context.Context, categoryID uuid.UUID, count int64) error {
	c.counts[categoryID] = count
	return nil
}

func (c *fakeCountCache) Invalidate(_ context.Context, categoryID uuid.UUID) error {
	delete(c.counts, categoryID)
	return nil
}

func mustCategory(t *testing.T, name string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	var category *catalog.Category
	var err error
	if parent == nil {
		category, err = catalog.NewCategory(name, "", "", testClock.Now())
	} else {
		category, err = catalog.NewChildCategory(name, "", "", parent, testClock.Now())
	}
	require.NoError(t, err)
	return category
}

func newService(categoryRepo *MockCategoryRepository, productRepo *MockProductRepository, cache ProductCountCache) *CategoryService {
	return NewCategoryService(categoryRepo, productRepo, cache, testClock)
}

func TestCategoryServiceCreate(t *testing.T) {
	t.Run("creates root category", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)

		categoryRepo.On("ExistsByName", mock.Anything, "Electronics", uuid.Nil).Return(false, nil)
		categoryRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := service.Create(context.Background(), CreateCategoryRequest{Name: "Electronics"})

		require.NoError(t, err)
		assert.Equal(t, "Electronics", resp.Name)
		assert.Equal(t, "electronics", resp.Slug)
		assert.Equal(t, 0, resp.Level)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("creates child under existing parent", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		parent := mustCategory(t, "Electronics", nil)

		categoryRepo.On("ExistsByName", mock.Anything, "Laptops", uuid.Nil).Return(false, nil)
		categoryRepo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
		categoryRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := service.Create(context.Background(), CreateCategoryRequest{
			Name:     "Laptops",
			ParentID: &parent.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Level)
		require.NotNil(t, resp.ParentID)
		assert.Equal(t, parent.ID, *resp.ParentID)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)

		categoryRepo.On("ExistsByName", mock.Anything, "Electronics", uuid.Nil).Return(true, nil)

		_, err := service.Create(context.Background(), CreateCategoryRequest{Name: "Electronics"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindConflict, domainErr.Kind)
	})

	t.Run("missing parent surfaces not found", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		missingID := uuid.New()

		categoryRepo.On("ExistsByName", mock.Anything, "Laptops", uuid.Nil).Return(false, nil)
		categoryRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(context.Background(), CreateCategoryRequest{
			Name:     "Laptops",
			ParentID: &missingID,
		})

		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestCategoryServiceGetHierarchy(t *testing.T) {
	t.Run("returns chain from root to leaf", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)
		child := mustCategory(t, "Laptops", root)
		leaf := mustCategory(t, "Gaming Laptops", child)

		categoryRepo.On("FindByID", mock.Anything, leaf.ID).Return(leaf, nil)
		categoryRepo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		categoryRepo.On("FindByID", mock.Anything, root.ID).Return(root, nil)

		chain, err := service.GetHierarchy(context.Background(), leaf.ID)

		require.NoError(t, err)
		require.Len(t, chain, 3)
		assert.Equal(t, "Electronics", chain[0].Name)
		assert.Equal(t, "Laptops", chain[1].Name)
		assert.Equal(t, "Gaming Laptops", chain[2].Name)
	})

	t.Run("dangling parent returns partial chain with integrity error", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)
		child := mustCategory(t, "Laptops", root)

		categoryRepo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		categoryRepo.On("FindByID", mock.Anything, root.ID).Return(nil, shared.ErrNotFound)

		chain, err := service.GetHierarchy(context.Background(), child.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindIntegrity, domainErr.Kind)
		require.Len(t, chain, 1)
		assert.Equal(t, "Laptops", chain[0].Name)
	})

	t.Run("cycle in parent chain is detected", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		a := mustCategory(t, "A", nil)
		b := mustCategory(t, "B", a)
		a.ParentID = &b.ID // corrupt data

		categoryRepo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
		categoryRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)

		_, err := service.GetHierarchy(context.Background(), a.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindIntegrity, domainErr.Kind)
	})
}

func TestCategoryServiceGetDescendants(t *testing.T) {
	t.Run("walks the whole subtree breadth-first", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)
		laptops := mustCategory(t, "Laptops", root)
		phones := mustCategory(t, "Phones", root)
		gaming := mustCategory(t, "Gaming Laptops", laptops)

		categoryRepo.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		categoryRepo.On("FindChildren", mock.Anything, root.ID).Return([]catalog.Category{*laptops, *phones}, nil)
		categoryRepo.On("FindChildren", mock.Anything, laptops.ID).Return([]catalog.Category{*gaming}, nil)
		categoryRepo.On("FindChildren", mock.Anything, phones.ID).Return([]catalog.Category{}, nil)
		categoryRepo.On("FindChildren", mock.Anything, gaming.ID).Return([]catalog.Category{}, nil)

		descendants, err := service.GetDescendants(context.Background(), root.ID)

		require.NoError(t, err)
		require.Len(t, descendants, 3)
		assert.Equal(t, "Laptops", descendants[0].Name)
		assert.Equal(t, "Phones", descendants[1].Name)
		assert.Equal(t, "Gaming Laptops", descendants[2].Name)
	})

	t.Run("terminates on a cycle with integrity error", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		a := mustCategory(t, "A", nil)
		b := mustCategory(t, "B", a)

		categoryRepo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
		categoryRepo.On("FindChildren", mock.Anything, a.ID).Return([]catalog.Category{*b}, nil)
		// corrupt data: b lists a as its child again
		categoryRepo.On("FindChildren", mock.Anything, b.ID).Return([]catalog.Category{*a}, nil)

		_, err := service.GetDescendants(context.Background(), a.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindIntegrity, domainErr.Kind)
	})
}

func TestCategoryServiceUpdateProductCount(t *testing.T) {
	t.Run("counts active products across the subtree", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		productRepo := new(MockProductRepository)
		cache := newFakeCountCache()
		service := newService(categoryRepo, productRepo, cache)
		electronics := mustCategory(t, "Electronics", nil)
		laptops := mustCategory(t, "Laptops", electronics)

		categoryRepo.On("FindByID", mock.Anything, electronics.ID).Return(electronics, nil)
		categoryRepo.On("FindChildren", mock.Anything, electronics.ID).Return([]catalog.Category{*laptops}, nil)
		categoryRepo.On("FindChildren", mock.Anything, laptops.ID).Return([]catalog.Category{}, nil)
		productRepo.On("CountActiveByCategories", mock.Anything, []uuid.UUID{electronics.ID, laptops.ID}).Return(int64(2), nil)
		categoryRepo.On("Save", mock.Anything, electronics).Return(nil)

		count, err := service.UpdateProductCount(context.Background(), electronics.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.Equal(t, int64(2), electronics.ProductCount)

		cached, ok := cache.Get(context.Background(), electronics.ID)
		assert.True(t, ok)
		assert.Equal(t, int64(2), cached)
	})

	t.Run("get after refresh hits the cache", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		cache := newFakeCountCache()
		service := newService(categoryRepo, new(MockProductRepository), cache)
		id := uuid.New()
		require.NoError(t, cache.Set(context.Background(), id, 7))

		count, err := service.GetProductCount(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		categoryRepo.AssertNotCalled(t, "FindByID")
	})
}

func TestCategoryServiceMove(t *testing.T) {
	t.Run("rejects moving under own descendant", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)
		child := mustCategory(t, "Laptops", root)

		categoryRepo.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		categoryRepo.On("FindChildren", mock.Anything, root.ID).Return([]catalog.Category{*child}, nil)
		categoryRepo.On("FindChildren", mock.Anything, child.ID).Return([]catalog.Category{}, nil)

		_, err := service.Move(context.Background(), root.ID, MoveCategoryRequest{NewParentID: &child.ID})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindIntegrity, domainErr.Kind)
	})

	t.Run("rejects self parent", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)

		categoryRepo.On("FindByID", mock.Anything, root.ID).Return(root, nil)

		_, err := service.Move(context.Background(), root.ID, MoveCategoryRequest{NewParentID: &root.ID})

		require.Error(t, err)
	})

	t.Run("moves to root", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)
		child := mustCategory(t, "Laptops", root)

		categoryRepo.On("FindByID", mock.Anything, child.ID).Return(child, nil)
		categoryRepo.On("Save", mock.Anything, child).Return(nil)

		resp, err := service.Move(context.Background(), child.ID, MoveCategoryRequest{})

		require.NoError(t, err)
		assert.Nil(t, resp.ParentID)
		assert.Equal(t, 0, resp.Level)
	})
}

func TestCategoryServiceDelete(t *testing.T) {
	t.Run("rejects delete with children", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := newService(categoryRepo, new(MockProductRepository), nil)
		root := mustCategory(t, "Electronics", nil)

		categoryRepo.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		categoryRepo.On("HasChildren", mock.Anything, root.ID).Return(true, nil)

		err := service.Delete(context.Background(), root.ID)

		require.Error(t, err)
		categoryRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("rejects delete with active products", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		productRepo := new(MockProductRepository)
		service := newService(categoryRepo, productRepo, nil)
		leaf := mustCategory(t, "Laptops", nil)

		categoryRepo.On("FindByID", mock.Anything, leaf.ID).Return(leaf, nil)
		categoryRepo.On("HasChildren", mock.Anything, leaf.ID).Return(false, nil)
		productRepo.On("CountActiveByCategories", mock.Anything, []uuid.UUID{leaf.ID}).Return(int64(5), nil)

		err := service.Delete(context.Background(), leaf.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.KindConflict, domainErr.Kind)
		assert.Equal(t, "CATEGORY_HAS_PRODUCTS", domainErr.Code)
		categoryRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("deletes empty leaf and invalidates cache", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		productRepo := new(MockProductRepository)
		cache := newFakeCountCache()
		service := newService(categoryRepo, productRepo, cache)
		leaf := mustCategory(t, "Laptops", nil)
		require.NoError(t, cache.Set(context.Background(), leaf.ID, 3))

		categoryRepo.On("FindByID", mock.Anything, leaf.ID).Return(leaf, nil)
		categoryRepo.On("HasChildren", mock.Anything, leaf.ID).Return(false, nil)
		productRepo.On("CountActiveByCategories", mock.Anything, []uuid.UUID{leaf.ID}).Return(int64(0), nil)
		categoryRepo.On("Delete", mock.Anything, leaf.ID).Return(nil)

		err := service.Delete(context.Background(), leaf.ID)

		require.NoError(t, err)
		_, ok := cache.Get(context.Background(), leaf.ID)
		assert.False(t, ok)
	})
}
