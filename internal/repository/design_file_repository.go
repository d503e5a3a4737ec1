package repository

import (
	"errors"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"

	"gorm.io/gorm"
)

// DesignFileRepository is the design file data access interface.
type DesignFileRepository interface {
	Create(file *models.DesignFile) error
	Update(file *models.DesignFile) error
	Delete(id uint) error
	GetByID(id uint) (*models.DesignFile, error)
	ListActiveGeneral(productID uint) ([]models.DesignFile, error)
	ListActiveByColorHex(productID uint, hex string) ([]models.DesignFile, error)
	ListByProduct(productID uint) ([]models.DesignFile, error)
	IncrementDownloadCount(id uint) error
	WithTx(tx *gorm.DB) *GormDesignFileRepository
}

// GormDesignFileRepository is the GORM implementation.
type GormDesignFileRepository struct {
	db *gorm.DB
}

// NewDesignFileRepository creates a design file repository.
func NewDesignFileRepository(db *gorm.DB) *GormDesignFileRepository {
	return &GormDesignFileRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDesignFileRepository) WithTx(tx *gorm.DB) *GormDesignFileRepository {
	if tx == nil {
		return r
	}
	return &GormDesignFileRepository{db: tx}
}

// Create inserts a design file.
func (r *GormDesignFileRepository) Create(file *models.DesignFile) error {
	return r.db.Create(file).Error
}

// Update saves a design file.
func (r *GormDesignFileRepository) Update(file *models.DesignFile) error {
	return r.db.Save(file).Error
}

// Delete soft-deletes a design file.
func (r *GormDesignFileRepository) Delete(id uint) error {
	return r.db.Delete(&models.DesignFile{}, id).Error
}

// GetByID loads one design file.
func (r *GormDesignFileRepository) GetByID(id uint) (*models.DesignFile, error) {
	var file models.DesignFile
	if err := r.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

// ListActiveGeneral returns the product's active non-color-variant files.
func (r *GormDesignFileRepository) ListActiveGeneral(productID uint) ([]models.DesignFile, error) {
	var files []models.DesignFile
	if err := r.db.
		Where("product_id = ? AND is_active = ? AND is_color_variant = ?", productID, true, false).
		Order("id asc").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// ListActiveByColorHex returns active color-variant files matching the hex.
func (r *GormDesignFileRepository) ListActiveByColorHex(productID uint, hex string) ([]models.DesignFile, error) {
	var files []models.DesignFile
	if err := r.db.
		Where("product_id = ? AND is_active = ? AND is_color_variant = ? AND color_variant_hex = ?",
			productID, true, true, hex).
		Order("id asc").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// ListByProduct returns every file of a product, newest first.
func (r *GormDesignFileRepository) ListByProduct(productID uint) ([]models.DesignFile, error) {
	var files []models.DesignFile
	if err := r.db.Where("product_id = ?", productID).Order("id desc").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// IncrementDownloadCount bumps the file-level download counter.
func (r *GormDesignFileRepository) IncrementDownloadCount(id uint) error {
	return r.db.Model(&models.DesignFile{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}
