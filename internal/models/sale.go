package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment statuses for a sale.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
)

// SaleItem is one line of a completed sale, capturing the pricing that was
// in effect at the time: unit price, whether case pricing applied, and the
// final line total.
type SaleItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SaleID      string  `json:"sale_id" gorm:"index;type:varchar(36)"`
	ProductID   string  `json:"product_id" gorm:"index;type:varchar(36)"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"` // effective per-unit price (averaged when case priced)
	IsCasePrice bool    `json:"is_case_price"`
	LineTotal   float64 `json:"line_total"`
	gorm.Model
}

// Sale is a completed (or refunded) register transaction.
type Sale struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CustomerID string `json:"customer_id" gorm:"index;type:varchar(36)"`

	Items []SaleItem `json:"items" gorm:"foreignKey:SaleID"`

	// Totals, as computed by the pricing engine.
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`

	PaymentMethod string `json:"payment_method" gorm:"default:cash"` // cash, card
	PaymentStatus string `json:"payment_status" gorm:"default:pending"`

	GiftCardID string `json:"gift_card_id,omitempty" gorm:"type:varchar(36)"`

	AgeVerified   bool       `json:"age_verified"`
	AgeVerifiedAt *time.Time `json:"age_verified_at"`

	gorm.Model
}
