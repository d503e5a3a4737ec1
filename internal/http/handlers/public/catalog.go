package public

import (
	"strconv"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCategories returns the storefront categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}

// ListProducts returns active products, filterable by category and
// search term.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		OnlyActive:   true,
		WithCategory: true,
	}
	products, total, err := h.catalog.ListProducts(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct returns one product by slug.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !product.IsActive {
		respondServiceError(c, service.ErrProductNotFound)
		return
	}
	response.Success(c, product)
}

// ListProductReviews returns the approved reviews of a product.
func (h *Handler) ListProductReviews(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	reviews, total, err := h.reviews.ListApproved(product.ID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

type submitReviewRequest struct {
	Author  string `json:"author" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// SubmitReview creates a pending review for a product.
func (h *Handler) SubmitReview(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "بيانات التقييم غير صحيحة")
		return
	}
	review, err := h.reviews.SubmitReview(product.ID, 0, req.Author, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, review)
}
