package models

import (
	"time"

	"gorm.io/gorm"
)

// DesignFile is a deliverable asset tied to a product, optionally scoped to
// one color variant. Invariant: IsColorVariant implies ColorVariantHex is set.
type DesignFile struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ProductID       uint           `gorm:"index;not null" json:"product_id"`
	FileName        string         `gorm:"not null" json:"file_name"`
	FileURL         string         `gorm:"not null" json:"file_url"`
	FileSize        int64          `gorm:"not null;default:0" json:"file_size"`
	MimeType        string         `gorm:"type:varchar(128)" json:"mime_type"`
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`
	IsColorVariant  bool           `gorm:"default:false;index" json:"is_color_variant"`
	ColorVariantName string        `gorm:"type:varchar(100)" json:"color_variant_name,omitempty"`
	ColorVariantHex string         `gorm:"type:varchar(16);index" json:"color_variant_hex,omitempty"`
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	MaxDownloads    int            `gorm:"not null;default:0" json:"max_downloads"` // 0 means unlimited
	DownloadCount   int            `gorm:"not null;default:0" json:"download_count"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (DesignFile) TableName() string {
	return "design_files"
}

// OrderDesignFile grants one order access to one design file. It carries its
// own download counter and expiry independent of the file's limits, and is
// the authorization record checked on every download/stream request.
type OrderDesignFile struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	OrderID       uint       `gorm:"not null;index;uniqueIndex:idx_order_design_file" json:"order_id"`
	DesignFileID  uint       `gorm:"not null;index;uniqueIndex:idx_order_design_file" json:"design_file_id"`
	OrderItemID   uint       `gorm:"index" json:"order_item_id,omitempty"`
	Token         string     `gorm:"uniqueIndex;not null;type:varchar(64)" json:"token"`
	MaxDownloads  int        `gorm:"not null;default:0" json:"max_downloads"` // 0 means unlimited
	DownloadCount int        `gorm:"not null;default:0" json:"download_count"`
	ExpiresAt     *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	DesignFile *DesignFile `gorm:"foreignKey:DesignFileID" json:"design_file,omitempty"`
}

// TableName sets the table name.
func (OrderDesignFile) TableName() string {
	return "order_design_files"
}
