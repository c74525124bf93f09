package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is an optional party on a sale, tracked for loyalty accrual.
type Customer struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string     `json:"name" gorm:"index" validate:"required,min=2,max=200"`
	Phone       string     `json:"phone" gorm:"index;type:varchar(32)" validate:"omitempty,max=32"`
	Email       string     `json:"email" gorm:"index;type:varchar(255)" validate:"omitempty,email"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	IDVerified   bool       `json:"id_verified"`
	IDVerifiedAt *time.Time `json:"id_verified_at"`

	// Loyalty
	LoyaltyPoints int     `json:"loyalty_points" validate:"gte=0"`
	TotalSpent    float64 `json:"total_spent" validate:"gte=0"`

	gorm.Model
}
