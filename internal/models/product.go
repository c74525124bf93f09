package models

import "gorm.io/gorm"

// Product represents a single SKU in the store catalog.
//
// CasePrice/CaseSize describe bulk pricing: once a sale line reaches
// CaseSize units, full cases are charged at CasePrice instead of
// CaseSize*Price. A zero CasePrice means the product has no case tier.
type Product struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"index" validate:"required,min=2,max=200"`
	Brand      string `json:"brand" gorm:"index" validate:"omitempty,max=100"`
	CategoryID string `json:"category_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	SKU        string `json:"sku" gorm:"index;type:varchar(64)" validate:"omitempty,max=64"`
	Barcode    string `json:"barcode" gorm:"index;type:varchar(64)" validate:"omitempty,max=64"`

	// Pricing
	Price     float64 `json:"price" validate:"required,gt=0"`
	CasePrice float64 `json:"case_price" validate:"gte=0"`
	CaseSize  int     `json:"case_size" gorm:"default:1" validate:"gte=1"`

	// Inventory
	StockQuantity     int `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int `json:"low_stock_threshold" gorm:"default:10" validate:"gte=0"`

	// Details
	Size        string  `json:"size" validate:"omitempty,max=50"` // e.g. "750ml", "6-pack"
	ABV         float64 `json:"abv" validate:"gte=0,lte=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`

	// Flags
	IsActive                bool `json:"is_active" gorm:"default:true"`
	RequiresAgeVerification bool `json:"requires_age_verification" gorm:"default:true"`

	TimesSold  int `json:"times_sold"`
	gorm.Model     // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsLowStock reports whether the product is at or below its reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}
