package repository

import (
	"errors"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository is the promo code data access interface.
type PromoCodeRepository interface {
	Create(code *models.PromoCode) error
	Update(code *models.PromoCode) error
	Delete(id uint) error
	GetByID(id uint) (*models.PromoCode, error)
	GetByCode(code string) (*models.PromoCode, error)
	List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error)
	IncrementUsedCount(id uint) error
	WithTx(tx *gorm.DB) *GormPromoCodeRepository
}

// GormPromoCodeRepository is the GORM implementation.
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository creates a promo code repository.
func NewPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPromoCodeRepository) WithTx(tx *gorm.DB) *GormPromoCodeRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeRepository{db: tx}
}

// Create inserts a promo code.
func (r *GormPromoCodeRepository) Create(code *models.PromoCode) error {
	return r.db.Create(code).Error
}

// Update saves a promo code.
func (r *GormPromoCodeRepository) Update(code *models.PromoCode) error {
	return r.db.Save(code).Error
}

// Delete soft-deletes a promo code.
func (r *GormPromoCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.PromoCode{}, id).Error
}

// GetByID loads one promo code.
func (r *GormPromoCodeRepository) GetByID(id uint) (*models.PromoCode, error) {
	var code models.PromoCode
	if err := r.db.First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByCode loads one promo code by its code string (case-insensitive).
func (r *GormPromoCodeRepository) GetByCode(code string) (*models.PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	var promo models.PromoCode
	if err := r.db.Where("UPPER(code) = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// List returns a filtered promo code page.
func (r *GormPromoCodeRepository) List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	var codes []models.PromoCode
	query := r.db.Model(&models.PromoCode{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("code LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// IncrementUsedCount bumps the usage counter.
func (r *GormPromoCodeRepository) IncrementUsedCount(id uint) error {
	return r.db.Model(&models.PromoCode{}).Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
