package models

import "gorm.io/gorm"

// Category groups products and carries the category-specific surtax rate
// (e.g. an alcohol excise rate) charged on top of the base sales tax.
type Category struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	TaxRate     float64 `json:"tax_rate" validate:"gte=0,lte=1"` // fractional, e.g. 0.05 for 5%
	gorm.Model
}
