package admin

import (
	"strconv"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
	"github.com/haitham-akram/prestige-designs-sub004/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	CategoryID           uint                    `json:"category_id" binding:"required"`
	Slug                 string                  `json:"slug" binding:"required"`
	Name                 string                  `json:"name" binding:"required"`
	Description          string                  `json:"description"`
	Price                string                  `json:"price" binding:"required"`
	Images               []string                `json:"images"`
	Tags                 []string                `json:"tags"`
	EnableCustomizations bool                    `json:"enable_customizations"`
	Colors               []models.ColorSelection `json:"colors"`
	IsActive             *bool                   `json:"is_active"`
	SortOrder            int                     `json:"sort_order"`
}

func (r productRequest) apply(product *models.Product) error {
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.LessThan(decimal.Zero) {
		return service.ErrOrderInvalidInput
	}
	product.CategoryID = r.CategoryID
	product.Slug = strings.TrimSpace(r.Slug)
	product.Name = strings.TrimSpace(r.Name)
	product.Description = r.Description
	product.Price = models.NewMoneyFromDecimal(price)
	product.Images = models.StringArray(r.Images)
	product.Tags = models.StringArray(r.Tags)
	product.EnableCustomizations = r.EnableCustomizations
	product.Colors = models.ColorList(r.Colors)
	product.SortOrder = r.SortOrder
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	} else {
		product.IsActive = true
	}
	return nil
}

// ListAllProducts returns products for the admin panel, inactive ones
// included.
func (h *Handler) ListAllProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, total, err := h.catalog.ListProducts(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       c.Query("search"),
		WithCategory: true,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// CreateProduct inserts a product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid product payload")
		return
	}
	var product models.Product
	if err := req.apply(&product); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.catalog.CreateProduct(&product); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct saves an existing product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	product, err := h.catalog.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid product payload")
		return
	}
	if err := req.apply(product); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.catalog.UpdateProduct(product); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	if err := h.catalog.DeleteProduct(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}

type categoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory inserts a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid category payload")
		return
	}
	category := models.Category{
		Slug:      strings.TrimSpace(req.Slug),
		Name:      strings.TrimSpace(req.Name),
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if err := h.catalog.CreateCategory(&category); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory saves a category.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid category payload")
		return
	}
	category := models.Category{
		Slug:      strings.TrimSpace(req.Slug),
		Name:      strings.TrimSpace(req.Name),
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	category.ID = id
	if err := h.catalog.UpdateCategory(&category); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory removes a category.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	if err := h.catalog.DeleteCategory(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
