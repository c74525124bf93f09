package repositories

import "bottleshop/internal/models"

// GiftCardRepository defines the interface for gift card data access,
// including the transaction ledger.
type GiftCardRepository interface {
	GetByID(id string) (*models.GiftCard, error)
	GetByCardNumber(cardNumber string) (*models.GiftCard, error)
	Create(card *models.GiftCard) error
	Update(card *models.GiftCard) error
	CreateTransaction(tx *models.GiftCardTransaction) error
	ListTransactions(giftCardID string) ([]models.GiftCardTransaction, error)
}
