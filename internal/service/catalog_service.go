package service

import (
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
)

// CatalogService serves products and categories.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// NewCatalogService creates a catalog service.
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// ListProducts returns a filtered product page.
func (s *CatalogService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.products.List(filter)
}

// GetProductBySlug loads one product for the storefront.
func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	product, err := s.products.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductByID loads one product for the admin panel.
func (s *CatalogService) GetProductByID(id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProduct inserts a product.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	return s.products.Create(product)
}

// UpdateProduct saves a product.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	return s.products.Update(product)
}

// DeleteProduct soft-deletes a product.
func (s *CatalogService) DeleteProduct(id uint) error {
	return s.products.Delete(id)
}

// ListCategories returns every category ordered for display.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categories.ListAll()
}

// GetCategoryBySlug loads one category.
func (s *CatalogService) GetCategoryBySlug(slug string) (*models.Category, error) {
	category, err := s.categories.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory inserts a category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	return s.categories.Create(category)
}

// UpdateCategory saves a category.
func (s *CatalogService) UpdateCategory(category *models.Category) error {
	return s.categories.Update(category)
}

// DeleteCategory soft-deletes a category.
func (s *CatalogService) DeleteCategory(id uint) error {
	return s.categories.Delete(id)
}
