package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// CategoryHandler handles category API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category routes on the API group
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.POST("", h.Create)
	categories.GET("", h.List)
	categories.GET("/tree", h.GetTree)
	categories.GET("/featured", h.GetFeatured)
	categories.GET("/slug/:slug", h.GetBySlug)
	categories.GET("/:id", h.GetByID)
	categories.GET("/:id/tree", h.GetSubtree)
	categories.GET("/:id/hierarchy", h.GetHierarchy)
	categories.GET("/:id/descendants", h.GetDescendants)
	categories.GET("/:id/product-count", h.GetProductCount)
	categories.PUT("/:id", h.Update)
	categories.POST("/:id/move", h.Move)
	categories.POST("/:id/activate", h.Activate)
	categories.POST("/:id/deactivate", h.Deactivate)
	categories.POST("/:id/product-count/refresh", h.RefreshProductCount)
	categories.DELETE("/:id", h.Delete)
}

// Create godoc
// @Summary      Create category
// @Description  Create a new category, optionally under a parent
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// GetByID godoc
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// GetBySlug godoc
// @Summary      Get category by slug
// @Tags         categories
// @Produce      json
// @Param        slug path string true "Category slug"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/slug/{slug} [get]
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	category, err := h.categoryService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// List godoc
// @Summary      List categories
// @Description  Retrieve a paginated, filterable list of categories
// @Tags         categories
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name search"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if level := c.Query("level"); level != "" {
		n, err := strconv.Atoi(level)
		if err != nil {
			h.BadRequest(c, "invalid level: must be an integer")
			return
		}
		if filter.Filters == nil {
			filter.Filters = map[string]interface{}{}
		}
		filter.Filters["level"] = n
	}

	categories, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// GetTree godoc
// @Summary      Get category tree
// @Description  Retrieve the full nested forest of active categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryTreeNode}
// @Router       /categories/tree [get]
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.categoryService.BuildTree(c.Request.Context(), nil)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}

// GetSubtree godoc
// @Summary      Get category subtree
// @Description  Retrieve the nested tree of active categories under the given category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryTreeNode}
// @Router       /categories/{id}/tree [get]
func (h *CategoryHandler) GetSubtree(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tree, err := h.categoryService.BuildTree(c.Request.Context(), &id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}

// GetHierarchy godoc
// @Summary      Get category ancestor chain
// @Description  Retrieve the chain from the root down to the given category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/hierarchy [get]
func (h *CategoryHandler) GetHierarchy(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	chain, err := h.categoryService.GetHierarchy(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, chain)
}

// GetDescendants godoc
// @Summary      Get category descendants
// @Description  Retrieve every category in the subtree, excluding the root
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/descendants [get]
func (h *CategoryHandler) GetDescendants(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	descendants, err := h.categoryService.GetDescendants(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, descendants)
}

// GetFeatured godoc
// @Summary      Get featured categories
// @Tags         categories
// @Produce      json
// @Param        limit query int false "Maximum results" default(10)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /categories/featured [get]
func (h *CategoryHandler) GetFeatured(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "invalid limit: must be an integer")
			return
		}
		limit = n
	}

	categories, err := h.categoryService.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Update godoc
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Move godoc
// @Summary      Move category
// @Description  Reparent a category. Moving under a descendant is rejected.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.MoveCategoryRequest true "Move request"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/move [post]
func (h *CategoryHandler) Move(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.MoveCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Move(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Activate godoc
// @Summary      Activate category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/activate [post]
func (h *CategoryHandler) Activate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate godoc
// @Summary      Deactivate category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/deactivate [post]
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete category
// @Description  Delete a category without children
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetProductCount godoc
// @Summary      Get category product count
// @Description  Retrieve the cached active product count for the category subtree
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=ProductCountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/product-count [get]
func (h *CategoryHandler) GetProductCount(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	count, err := h.categoryService.GetProductCount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ProductCountResponse{CategoryID: id, ProductCount: count})
}

// RefreshProductCount godoc
// @Summary      Refresh category product count
// @Description  Recompute the active product count from the category subtree
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=ProductCountResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id}/product-count/refresh [post]
func (h *CategoryHandler) RefreshProductCount(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	count, err := h.categoryService.UpdateProductCount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ProductCountResponse{CategoryID: id, ProductCount: count})
}

// ProductCountResponse reports the derived product count of a category
type ProductCountResponse struct {
	CategoryID   uuid.UUID `json:"category_id"`
	ProductCount int64     `json:"product_count"`
}
