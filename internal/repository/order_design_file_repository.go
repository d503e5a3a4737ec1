package repository

import (
	"errors"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"

	"gorm.io/gorm"
)

// OrderDesignFileRepository is the grant data access interface.
type OrderDesignFileRepository interface {
	Create(grant *models.OrderDesignFile) error
	GetByToken(token string) (*models.OrderDesignFile, error)
	ListByOrder(orderID uint) ([]models.OrderDesignFile, error)
	IncrementDownloadCount(id uint) error
	WithTx(tx *gorm.DB) *GormOrderDesignFileRepository
}

// GormOrderDesignFileRepository is the GORM implementation.
type GormOrderDesignFileRepository struct {
	db *gorm.DB
}

// NewOrderDesignFileRepository creates a grant repository.
func NewOrderDesignFileRepository(db *gorm.DB) *GormOrderDesignFileRepository {
	return &GormOrderDesignFileRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderDesignFileRepository) WithTx(tx *gorm.DB) *GormOrderDesignFileRepository {
	if tx == nil {
		return r
	}
	return &GormOrderDesignFileRepository{db: tx}
}

// Create inserts a grant row.
func (r *GormOrderDesignFileRepository) Create(grant *models.OrderDesignFile) error {
	return r.db.Create(grant).Error
}

// GetByToken loads a grant with its file by access token.
func (r *GormOrderDesignFileRepository) GetByToken(token string) (*models.OrderDesignFile, error) {
	if token == "" {
		return nil, nil
	}
	var grant models.OrderDesignFile
	if err := r.db.Preload("DesignFile").Where("token = ?", token).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &grant, nil
}

// ListByOrder returns the order's grants.
func (r *GormOrderDesignFileRepository) ListByOrder(orderID uint) ([]models.OrderDesignFile, error) {
	var grants []models.OrderDesignFile
	if err := r.db.Preload("DesignFile").Where("order_id = ?", orderID).Order("id asc").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// IncrementDownloadCount bumps the grant-level download counter.
func (r *GormOrderDesignFileRepository) IncrementDownloadCount(id uint) error {
	return r.db.Model(&models.OrderDesignFile{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}
