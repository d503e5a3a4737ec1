package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
	"github.com/haitham-akram/prestige-designs-sub004/internal/storage"
)

// UploadDesignFileInput describes one design file upload.
type UploadDesignFileInput struct {
	ProductID        uint
	FileName         string
	MimeType         string
	Content          io.Reader
	IsColorVariant   bool
	ColorVariantName string
	ColorVariantHex  string
	ExpiresAt        *time.Time
	MaxDownloads     int
}

// DesignFileService manages deliverable assets and their storage.
type DesignFileService struct {
	designFiles repository.DesignFileRepository
	products    repository.ProductRepository
	store       *storage.LocalStore
}

// NewDesignFileService creates a design file service.
func NewDesignFileService(
	designFiles repository.DesignFileRepository,
	products repository.ProductRepository,
	store *storage.LocalStore,
) *DesignFileService {
	return &DesignFileService{designFiles: designFiles, products: products, store: store}
}

// Upload stores the asset and records it against the product. A color
// variant file must carry its variant hex.
func (s *DesignFileService) Upload(input UploadDesignFileInput) (*models.DesignFile, error) {
	product, err := s.products.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if strings.TrimSpace(input.FileName) == "" {
		return nil, fmt.Errorf("%w: file name required", ErrOrderInvalidInput)
	}
	hex := ""
	if input.IsColorVariant {
		hex = normalizeHex(input.ColorVariantHex)
		if hex == "" {
			return nil, fmt.Errorf("%w: color variant files need a variant hex", ErrOrderInvalidInput)
		}
	}

	path := storage.ProductFilePath(product.Slug, input.FileName)
	size, err := s.store.Save(path, input.Content)
	if err != nil {
		return nil, err
	}

	file := &models.DesignFile{
		ProductID:        product.ID,
		FileName:         strings.TrimSpace(input.FileName),
		FileURL:          path,
		FileSize:         size,
		MimeType:         input.MimeType,
		IsActive:         true,
		IsColorVariant:   input.IsColorVariant,
		ColorVariantName: strings.TrimSpace(input.ColorVariantName),
		ColorVariantHex:  hex,
		ExpiresAt:        input.ExpiresAt,
		MaxDownloads:     input.MaxDownloads,
	}
	if err := s.designFiles.Create(file); err != nil {
		// Keep storage and catalog consistent on insert failure.
		_ = s.store.Delete(path)
		return nil, err
	}
	return file, nil
}

// UploadForOrder stores a bespoke asset produced for one order item and
// records it so it can be granted on manual completion.
func (s *DesignFileService) UploadForOrder(order *models.Order, item *models.OrderItem, colorName string, input UploadDesignFileInput) (*models.DesignFile, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return nil, fmt.Errorf("%w: file name required", ErrOrderInvalidInput)
	}
	path := storage.DesignFilePath(order.OrderNumber, item.ProductSlug, colorName, input.FileName)
	size, err := s.store.Save(path, input.Content)
	if err != nil {
		return nil, err
	}
	file := &models.DesignFile{
		ProductID:    item.ProductID,
		FileName:     strings.TrimSpace(input.FileName),
		FileURL:      path,
		FileSize:     size,
		MimeType:     input.MimeType,
		IsActive:     true,
		MaxDownloads: input.MaxDownloads,
	}
	if err := s.designFiles.Create(file); err != nil {
		_ = s.store.Delete(path)
		return nil, err
	}
	return file, nil
}

// GetByID loads one design file.
func (s *DesignFileService) GetByID(id uint) (*models.DesignFile, error) {
	file, err := s.designFiles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrDesignFileNotFound
	}
	return file, nil
}

// ListByProduct returns every file of a product.
func (s *DesignFileService) ListByProduct(productID uint) ([]models.DesignFile, error) {
	return s.designFiles.ListByProduct(productID)
}

// SetActive toggles a file's availability.
func (s *DesignFileService) SetActive(id uint, active bool) (*models.DesignFile, error) {
	file, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	file.IsActive = active
	if err := s.designFiles.Update(file); err != nil {
		return nil, err
	}
	return file, nil
}

// Delete removes the catalog record and its stored object.
func (s *DesignFileService) Delete(id uint) error {
	file, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.designFiles.Delete(id); err != nil {
		return err
	}
	if err := s.store.Delete(file.FileURL); err != nil {
		return err
	}
	return nil
}

// OpenContent opens the stored object for streaming.
func (s *DesignFileService) OpenContent(file *models.DesignFile) (io.ReadSeekCloser, error) {
	f, err := s.store.Open(file.FileURL)
	if err != nil {
		return nil, err
	}
	return f, nil
}
