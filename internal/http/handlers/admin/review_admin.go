package admin

import (
	"strconv"

	"github.com/haitham-akram/prestige-designs-sub004/internal/http/response"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListReviews returns a filtered review page for moderation.
func (h *Handler) ListReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)

	reviews, total, err := h.reviews.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: uint(productID),
		Status:    c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

type moderateReviewRequest struct {
	Approve bool `json:"approve"`
}

// ModerateReview approves or rejects a review.
func (h *Handler) ModerateReview(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}
	var req moderateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid moderation payload")
		return
	}
	review, err := h.reviews.Moderate(id, req.Approve)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, review)
}

// DeleteReview removes a review.
func (h *Handler) DeleteReview(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}
	if err := h.reviews.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}
