package service

import (
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
)

// RequiresCustomWork reports whether an order item carries customization
// content that a designer has to act on. It is pure and deterministic.
//
// The item flag alone is decisive when set. Otherwise the payload counts
// as real work when it has at least one text change, uploaded image,
// an uploaded logo, or non-blank notes. Color selections alone do not
// count: a color pick can be fulfilled automatically through a
// color-variant file.
func RequiresCustomWork(hasCustomizations bool, c models.Customizations) bool {
	if hasCustomizations {
		return true
	}
	if len(c.TextChanges) > 0 {
		return true
	}
	if len(c.UploadedImages) > 0 {
		return true
	}
	if strings.TrimSpace(c.UploadedLogo) != "" {
		return true
	}
	if strings.TrimSpace(c.Notes) != "" {
		return true
	}
	return false
}

// ItemRequiresCustomWork applies the detector to an order item.
func ItemRequiresCustomWork(item *models.OrderItem) bool {
	if item == nil {
		return false
	}
	return RequiresCustomWork(item.HasCustomizations, item.Customizations)
}
