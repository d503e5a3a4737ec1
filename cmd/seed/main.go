package main

import (
	"fmt"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	categories := []models.Category{
		{Name: "Stream Overlays", Slug: "stream-overlays", SortOrder: 300},
		{Name: "Alerts", Slug: "alerts", SortOrder: 200},
		{Name: "Logo Templates", Slug: "logo-templates", SortOrder: 100},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"stream-overlays", "alerts", "logo-templates"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	products := []models.Product{
		{
			Name:        "Neon Stream Overlay Pack",
			Slug:        "neon-stream-overlay",
			Description: "Animated neon overlay pack with webcam frame, starting-soon and be-right-back scenes.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.99)),
			CategoryID:  categoryIDs["stream-overlays"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1614680376593-902f74cf0d41?w=800",
			}),
			Tags:                 models.StringArray([]string{"overlay", "animated", "neon"}),
			EnableCustomizations: true,
			Colors: models.ColorList([]models.ColorSelection{
				{Name: "Purple", Hex: "#7C3AED"},
				{Name: "Cyan", Hex: "#06B6D4"},
				{Name: "Red", Hex: "#EF4444"},
			}),
			IsActive:  true,
			SortOrder: 300,
		},
		{
			Name:        "Minimal Alert Bundle",
			Slug:        "minimal-alert-bundle",
			Description: "Follower, subscriber and donation alerts with clean motion design.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(14.99)),
			CategoryID:  categoryIDs["alerts"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1593305841991-05c297ba4575?w=800",
			}),
			Tags:                 models.StringArray([]string{"alerts", "minimal"}),
			EnableCustomizations: false,
			IsActive:             true,
			SortOrder:            200,
		},
		{
			Name:        "Esports Logo Template",
			Slug:        "esports-logo-template",
			Description: "Editable mascot logo template delivered as layered source files.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(39.99)),
			CategoryID:  categoryIDs["logo-templates"],
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1511512578047-dfb367046420?w=800",
			}),
			Tags:                 models.StringArray([]string{"logo", "esports", "template"}),
			EnableCustomizations: true,
			IsActive:             true,
			SortOrder:            100,
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.CategoryID = prod.CategoryID
			existing.Images = prod.Images
			existing.Tags = prod.Tags
			existing.EnableCustomizations = prod.EnableCustomizations
			existing.Colors = prod.Colors
			existing.IsActive = prod.IsActive
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	// Attach deliverable files to the overlay pack: one general file plus one
	// per color variant, so auto-delivery has something to resolve.
	var overlay models.Product
	if err := models.DB.Where("slug = ?", "neon-stream-overlay").First(&overlay).Error; err != nil {
		stdLog.Printf("Skip design file seed: overlay product not found")
	} else {
		files := []models.DesignFile{
			{
				ProductID: overlay.ID,
				FileName:  "neon-overlay-pack.zip",
				FileURL:   "products/neon-stream-overlay/neon-overlay-pack.zip",
				FileSize:  52428800,
				MimeType:  "application/zip",
				IsActive:  true,
			},
			{
				ProductID:        overlay.ID,
				FileName:         "neon-overlay-purple.zip",
				FileURL:          "products/neon-stream-overlay/neon-overlay-purple.zip",
				FileSize:         31457280,
				MimeType:         "application/zip",
				IsActive:         true,
				IsColorVariant:   true,
				ColorVariantName: "Purple",
				ColorVariantHex:  "#7C3AED",
			},
			{
				ProductID:        overlay.ID,
				FileName:         "neon-overlay-cyan.zip",
				FileURL:          "products/neon-stream-overlay/neon-overlay-cyan.zip",
				FileSize:         31457280,
				MimeType:         "application/zip",
				IsActive:         true,
				IsColorVariant:   true,
				ColorVariantName: "Cyan",
				ColorVariantHex:  "#06B6D4",
			},
		}
		for _, file := range files {
			var existing models.DesignFile
			if err := models.DB.Where("product_id = ? AND file_name = ?", file.ProductID, file.FileName).First(&existing).Error; err != nil {
				if err := models.DB.Create(&file).Error; err != nil {
					stdLog.Printf("Failed to create design file %s: %v", file.FileName, err)
				} else {
					stdLog.Printf("Created design file: %s", file.FileName)
				}
			} else {
				stdLog.Printf("Design file already exists: %s", file.FileName)
			}
		}
	}

	now := time.Now()
	promoEnd := now.AddDate(0, 1, 0)
	promos := []models.PromoCode{
		{
			Code:        "WELCOME10",
			Type:        "percent",
			Value:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxDiscount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			ScopeType:   "all",
			UsageLimit:  100,
			StartsAt:    &now,
			EndsAt:      &promoEnd,
			IsActive:    true,
		},
		{
			Code:      "OVERLAY5",
			Type:      "fixed",
			Value:     models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			MinAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			ScopeType: "product",
			ProductID: func() *uint {
				if overlay.ID == 0 {
					return nil
				}
				id := overlay.ID
				return &id
			}(),
			IsActive: true,
		},
	}

	for _, promo := range promos {
		if promo.ScopeType == "product" && promo.ProductID == nil {
			stdLog.Printf("Skip promo %s: product missing", promo.Code)
			continue
		}
		var existing models.PromoCode
		if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promo %s: %v", promo.Code, err)
			} else {
				stdLog.Printf("Created promo: %s", promo.Code)
			}
		} else {
			stdLog.Printf("Promo already exists: %s", promo.Code)
		}
	}

	fmt.Println("\nSeed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 3 Products (overlay pack with color variants)")
	fmt.Println("- 3 Design files")
	fmt.Println("- 2 Promo codes")
	fmt.Println("- Default admin account (admin/admin123 unless overridden)")
}
