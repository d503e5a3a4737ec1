package service

import (
	"fmt"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
)

// ReviewService handles product reviews and their moderation.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

// NewReviewService creates a review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// SubmitReview creates a pending review for moderation.
func (s *ReviewService) SubmitReview(productID uint, userID uint, author string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1-5", ErrOrderInvalidInput)
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Author:    strings.TrimSpace(author),
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		Status:    constants.ReviewStatusPending,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListApproved returns approved reviews for a product page.
func (s *ReviewService) ListApproved(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviews.List(repository.ReviewListFilter{
		ProductID: productID,
		Status:    constants.ReviewStatusApproved,
		Page:      page,
		PageSize:  pageSize,
	})
}

// List returns a filtered review page for moderation.
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviews.List(filter)
}

// Moderate approves or rejects a pending review.
func (s *ReviewService) Moderate(id uint, approve bool) (*models.Review, error) {
	review, err := s.reviews.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	status := constants.ReviewStatusRejected
	if approve {
		status = constants.ReviewStatusApproved
	}
	if err := s.reviews.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	review.Status = status
	return review, nil
}

// Delete removes a review.
func (s *ReviewService) Delete(id uint) error {
	return s.reviews.Delete(id)
}
