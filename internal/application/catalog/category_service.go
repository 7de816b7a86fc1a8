package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductCountCache caches the derived per-category product counts so
// tree renders do not recount on every request
type ProductCountCache interface {
	Get(ctx context.Context, categoryID uuid.UUID) (int64, bool)
	Set(ctx context.Context, categoryID uuid.UUID, count int64) error
	Invalidate(ctx context.Context, categoryID uuid.UUID) error
}

// defaultFeaturedLimit caps featured category queries with no explicit limit
const defaultFeaturedLimit = 10

// CategoryService handles category tree business operations
type CategoryService struct {
	categoryRepo  catalog.CategoryRepository
	productRepo   catalog.ProductRepository
	countCache    ProductCountCache
	clock         shared.Clock
	featuredLimit int
}

// CategoryServiceOption configures a CategoryService
type CategoryServiceOption func(*CategoryService)

// WithFeaturedLimit overrides the default cap on featured category queries
func WithFeaturedLimit(limit int) CategoryServiceOption {
	return func(s *CategoryService) {
		s.featuredLimit = limit
	}
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	countCache ProductCountCache,
	clock shared.Clock,
	opts ...CategoryServiceOption,
) *CategoryService {
	s := &CategoryService{
		categoryRepo:  categoryRepo,
		productRepo:   productRepo,
		countCache:    countCache,
		clock:         clock,
		featuredLimit: defaultFeaturedLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new category, optionally under a parent. The child
// row carries the parent reference, so child creation and parent
// registration are one write.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.KindConflict, "CATEGORY_NAME_TAKEN",
			fmt.Sprintf("a category named %q already exists", req.Name))
	}

	now := s.clock.Now()
	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		category, err = catalog.NewChildCategory(req.Name, req.Description, req.Icon, parent, now)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(req.Name, req.Description, req.Icon, now)
		if err != nil {
			return nil, err
		}
	}

	if req.SortOrder != 0 {
		category.SetSortOrder(req.SortOrder, now)
	}
	if req.IsFeatured {
		category.Feature(now)
	}
	if len(req.Attributes) > 0 {
		if err := category.SetAttributes(toAttributeList(req.Attributes), now); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Update updates a category's basic information and attributes
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, req.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.KindConflict, "CATEGORY_NAME_TAKEN",
				fmt.Sprintf("a category named %q already exists", req.Name))
		}
	}

	now := s.clock.Now()
	if err := category.Update(req.Name, req.Description, now); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder, now)
	}
	if req.Attributes != nil {
		if err := category.SetAttributes(toAttributeList(req.Attributes), now); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves categories matching the filter
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetHierarchy returns the ancestor chain from the given category up to
// its root, ordered root-first. A dangling parent reference returns the
// chain walked so far together with an integrity error; the corruption
// is surfaced, never repaired silently.
func (s *CategoryService) GetHierarchy(ctx context.Context, id uuid.UUID) ([]CategoryResponse, error) {
	var chain []CategoryResponse
	visited := make(map[uuid.UUID]bool)

	current, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for {
		if visited[current.ID] {
			return reverseChain(chain), shared.NewIntegrityError("category",
				fmt.Sprintf("category graph contains a cycle through %s", current.ID))
		}
		visited[current.ID] = true
		chain = append(chain, ToCategoryResponse(current))

		if current.ParentID == nil {
			return reverseChain(chain), nil
		}

		parent, err := s.categoryRepo.FindByID(ctx, *current.ParentID)
		if err != nil {
			if shared.IsNotFound(err) {
				return reverseChain(chain), shared.NewIntegrityError("category",
					fmt.Sprintf("category %s references missing parent %s", current.ID, *current.ParentID))
			}
			return nil, err
		}
		current = parent
	}
}

// GetDescendants returns every category in the subtree rooted at the
// given category, excluding the root itself. Traversal is breadth-first
// with a visited set; revisiting a node means corrupt data and stops
// the walk with an integrity error.
func (s *CategoryService) GetDescendants(ctx context.Context, id uuid.UUID) ([]CategoryResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	var descendants []CategoryResponse
	visited := map[uuid.UUID]bool{id: true}
	queue := []uuid.UUID{id}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		children, err := s.categoryRepo.FindChildren(ctx, currentID)
		if err != nil {
			return nil, err
		}
		for i := range children {
			child := &children[i]
			if visited[child.ID] {
				return nil, shared.NewIntegrityError("category",
					fmt.Sprintf("category graph contains a cycle through %s", child.ID))
			}
			visited[child.ID] = true
			descendants = append(descendants, ToCategoryResponse(child))
			queue = append(queue, child.ID)
		}
	}

	return descendants, nil
}

// BuildTree returns the nested forest of active categories under the
// given parent (nil = the whole forest), ordered by (sort order, name)
// at every level
func (s *CategoryService) BuildTree(ctx context.Context, parentID *uuid.UUID) ([]CategoryTreeNode, error) {
	visited := make(map[uuid.UUID]bool)
	if parentID != nil {
		visited[*parentID] = true
	}
	return s.buildSubtree(ctx, parentID, visited)
}

func (s *CategoryService) buildSubtree(ctx context.Context, parentID *uuid.UUID, visited map[uuid.UUID]bool) ([]CategoryTreeNode, error) {
	var categories []catalog.Category
	var err error
	if parentID == nil {
		categories, err = s.categoryRepo.FindRoots(ctx)
	} else {
		categories, err = s.categoryRepo.FindChildren(ctx, *parentID)
	}
	if err != nil {
		return nil, err
	}

	nodes := make([]CategoryTreeNode, 0, len(categories))
	for i := range categories {
		category := &categories[i]
		if !category.IsActive {
			continue
		}
		if visited[category.ID] {
			return nil, shared.NewIntegrityError("category",
				fmt.Sprintf("category graph contains a cycle through %s", category.ID))
		}
		visited[category.ID] = true

		children, err := s.buildSubtree(ctx, &category.ID, visited)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, CategoryTreeNode{
			CategoryResponse: ToCategoryResponse(category),
			Children:         children,
		})
	}

	return nodes, nil
}

// GetFeatured returns active featured categories for storefront display
func (s *CategoryService) GetFeatured(ctx context.Context, limit int) ([]CategoryResponse, error) {
	if limit <= 0 {
		limit = s.featuredLimit
	}
	categories, err := s.categoryRepo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Move reparents a category. Moving under one of the category's own
// descendants would create a cycle and is rejected.
func (s *CategoryService) Move(ctx context.Context, id uuid.UUID, req MoveCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var newParent *catalog.Category
	if req.NewParentID != nil {
		if *req.NewParentID == id {
			return nil, shared.NewIntegrityError("category", "category cannot be its own parent")
		}
		descendants, err := s.GetDescendants(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if d.ID == *req.NewParentID {
				return nil, shared.NewIntegrityError("category",
					"cannot move a category under one of its own descendants")
			}
		}
		newParent, err = s.categoryRepo.FindByID(ctx, *req.NewParentID)
		if err != nil {
			return nil, err
		}
	}

	if err := category.Reparent(newParent, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate makes a category visible again
func (s *CategoryService) Activate(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := category.Activate(s.clock.Now()); err != nil {
		return err
	}
	return s.categoryRepo.Save(ctx, category)
}

// Deactivate hides a category from storefront trees
func (s *CategoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := category.Deactivate(s.clock.Now()); err != nil {
		return err
	}
	return s.categoryRepo.Save(ctx, category)
}

// Delete removes a category. Categories with children or active products
// cannot be deleted; move or delete those first.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError(shared.KindConflict, "CATEGORY_HAS_CHILDREN",
			"cannot delete a category that still has children")
	}

	productCount, err := s.productRepo.CountActiveByCategories(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if productCount > 0 {
		return shared.NewDomainError(shared.KindConflict, "CATEGORY_HAS_PRODUCTS",
			"cannot delete a category that still has active products")
	}

	category.AddDomainEvent(catalog.NewCategoryDeletedEvent(category, s.clock.Now()))
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.countCache != nil {
		_ = s.countCache.Invalidate(ctx, id)
	}
	return nil
}

// UpdateProductCount recomputes the derived product count for a category
// from the active products in the category and its whole subtree, then
// persists it and refreshes the cache
func (s *CategoryService) UpdateProductCount(ctx context.Context, id uuid.UUID) (int64, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}

	descendants, err := s.GetDescendants(ctx, id)
	if err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, 0, len(descendants)+1)
	ids = append(ids, id)
	for _, d := range descendants {
		ids = append(ids, d.ID)
	}

	count, err := s.productRepo.CountActiveByCategories(ctx, ids)
	if err != nil {
		return 0, err
	}

	category.SetProductCount(count, s.clock.Now())
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return 0, err
	}

	if s.countCache != nil {
		_ = s.countCache.Set(ctx, id, count)
	}

	return count, nil
}

// GetProductCount returns the cached product count, recomputing on a miss
func (s *CategoryService) GetProductCount(ctx context.Context, id uuid.UUID) (int64, error) {
	if s.countCache != nil {
		if count, ok := s.countCache.Get(ctx, id); ok {
			return count, nil
		}
	}
	return s.UpdateProductCount(ctx, id)
}

func reverseChain(chain []CategoryResponse) []CategoryResponse {
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
