package service

import (
	"fmt"
	"strings"

	"github.com/haitham-akram/prestige-designs-sub004/internal/constants"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"
	"github.com/haitham-akram/prestige-designs-sub004/internal/repository"
)

// Resolution is the staged delivery decision for one order item. It does
// not touch the order; persistence happens in the fulfillment flow.
type Resolution struct {
	Outcome string
	Files   []models.DesignFile
	Note    string
}

// AutoDeliverable reports whether the item can be fulfilled without a
// designer.
func (r Resolution) AutoDeliverable() bool {
	return r.Outcome == constants.DeliveryOutcomeAuto
}

// DeliveryResolver decides auto-deliver vs. custom work per item and
// locates the matching design file assets.
type DeliveryResolver struct {
	products    repository.ProductRepository
	designFiles repository.DesignFileRepository
}

// NewDeliveryResolver creates a resolver.
func NewDeliveryResolver(products repository.ProductRepository, designFiles repository.DesignFileRepository) *DeliveryResolver {
	return &DeliveryResolver{products: products, designFiles: designFiles}
}

// Resolve applies the delivery policy to one item:
//
//  1. Product without customization support auto-delivers its general
//     active files.
//  2. Real customization content holds the item for manual work.
//  3. Color-only selections auto-deliver the union of matching
//     color-variant files; a selected color with no matching variant
//     holds the item for manual follow-up instead of delivering an
//     incomplete set.
//
// A missing product never fails the whole order; the item is held for
// manual review with a note.
func (r *DeliveryResolver) Resolve(item *models.OrderItem) (Resolution, error) {
	product, err := r.products.GetByID(item.ProductID)
	if err != nil {
		return Resolution{}, fmt.Errorf("load product %d: %w", item.ProductID, err)
	}
	if product == nil {
		return Resolution{
			Outcome: constants.DeliveryOutcomeCustomWork,
			Note:    fmt.Sprintf("product %d no longer exists, manual review required", item.ProductID),
		}, nil
	}

	if !product.EnableCustomizations {
		files, err := r.designFiles.ListActiveGeneral(product.ID)
		if err != nil {
			return Resolution{}, fmt.Errorf("load general files for product %d: %w", product.ID, err)
		}
		return Resolution{Outcome: constants.DeliveryOutcomeAuto, Files: files}, nil
	}

	if ItemRequiresCustomWork(item) {
		return Resolution{Outcome: constants.DeliveryOutcomeCustomWork}, nil
	}

	colors := item.Customizations.Colors
	if len(colors) == 0 {
		files, err := r.designFiles.ListActiveGeneral(product.ID)
		if err != nil {
			return Resolution{}, fmt.Errorf("load general files for product %d: %w", product.ID, err)
		}
		return Resolution{Outcome: constants.DeliveryOutcomeAuto, Files: files}, nil
	}

	var (
		matched []models.DesignFile
		missing []string
		seen    = map[uint]bool{}
	)
	for _, color := range colors {
		hex := normalizeHex(color.Hex)
		if hex == "" {
			missing = append(missing, color.Name)
			continue
		}
		files, err := r.designFiles.ListActiveByColorHex(product.ID, hex)
		if err != nil {
			return Resolution{}, fmt.Errorf("load color files for product %d hex %s: %w", product.ID, hex, err)
		}
		if len(files) == 0 {
			missing = append(missing, fmt.Sprintf("%s (%s)", color.Name, hex))
			continue
		}
		for _, file := range files {
			if !seen[file.ID] {
				seen[file.ID] = true
				matched = append(matched, file)
			}
		}
	}

	if len(missing) > 0 {
		return Resolution{
			Outcome: constants.DeliveryOutcomeCustomWork,
			Note:    "no color variant file for: " + strings.Join(missing, ", "),
		}, nil
	}
	return Resolution{Outcome: constants.DeliveryOutcomeAuto, Files: matched}, nil
}

// normalizeHex canonicalizes a color hex value for matching.
func normalizeHex(hex string) string {
	hex = strings.TrimSpace(strings.ToUpper(hex))
	if hex == "" {
		return ""
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return ""
	}
	return hex
}
