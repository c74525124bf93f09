package models

import (
	"time"

	"gorm.io/gorm"
)

// Gift card transaction types recorded in the ledger.
const (
	GiftCardTxPurchase = "purchase"
	GiftCardTxRedeem   = "redeem"
	GiftCardTxRefund   = "refund"
)

// GiftCard is a prepaid card or store credit redeemable at checkout.
// The balance on a card caps the discount it can produce: redemption
// never exceeds CurrentBalance and never drives a sale total negative.
type GiftCard struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	CardNumber string `json:"card_number" gorm:"uniqueIndex;type:varchar(16)" validate:"omitempty,len=16,numeric"`
	PIN        string `json:"-" gorm:"type:varchar(4)"`

	InitialBalance float64 `json:"initial_balance" validate:"required,gt=0"`
	CurrentBalance float64 `json:"current_balance" validate:"gte=0"`

	CardType string `json:"card_type" gorm:"default:gift"` // gift, store_credit, promotional

	RecipientName  string `json:"recipient_name" validate:"omitempty,max=200"`
	RecipientEmail string `json:"recipient_email" validate:"omitempty,email"`

	IsActive    bool       `json:"is_active" gorm:"default:true"`
	ActivatedAt *time.Time `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at"`

	gorm.Model
}

// IsExpired reports whether the card has passed its expiry, if one is set.
func (g *GiftCard) IsExpired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

// GiftCardTransaction is one ledger entry against a gift card balance.
type GiftCardTransaction struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GiftCardID   string  `json:"gift_card_id" gorm:"index;type:varchar(36)"`
	SaleID       string  `json:"sale_id" gorm:"index;type:varchar(36)"`
	Type         string  `json:"type"` // purchase, redeem, refund
	Amount       float64 `json:"amount"`
	BalanceAfter float64 `json:"balance_after"`
	Notes        string  `json:"notes"`
	gorm.Model
}
