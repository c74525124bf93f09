package models

import (
	"time"

	"gorm.io/gorm"
)

// Shift is one cashier session at the register, from drawer open to drawer
// count. At most one shift is active at a time.
type Shift struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CashierName string `json:"cashier_name" validate:"required,min=2,max=100"`

	OpeningCash  float64 `json:"opening_cash" validate:"gte=0"`
	ClosingCash  float64 `json:"closing_cash"`
	ExpectedCash float64 `json:"expected_cash"` // opening cash + cash sales, set at close
	OverShort    float64 `json:"over_short"`    // closing - expected, set at close

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	IsActive  bool       `json:"is_active" gorm:"index;default:true"`
	Notes     string     `json:"notes" validate:"omitempty,max=500"`

	gorm.Model
}
