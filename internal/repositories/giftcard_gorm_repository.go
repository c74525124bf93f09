package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bottleshop/internal/models"
)

// GORMGiftCardRepository is a GORM implementation of GiftCardRepository.
type GORMGiftCardRepository struct {
	db *gorm.DB
}

// NewGORMGiftCardRepository creates a new instance of GORMGiftCardRepository.
func NewGORMGiftCardRepository(db *gorm.DB) *GORMGiftCardRepository {
	return &GORMGiftCardRepository{
		db: db,
	}
}

// GetByID retrieves a gift card by its ID from the database.
func (r *GORMGiftCardRepository) GetByID(id string) (*models.GiftCard, error) {
	var card models.GiftCard
	if err := r.db.First(&card, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("gift card with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get gift card by ID %s: %w", id, err)
	}
	return &card, nil
}

// GetByCardNumber retrieves a gift card by its card number.
func (r *GORMGiftCardRepository) GetByCardNumber(cardNumber string) (*models.GiftCard, error) {
	var card models.GiftCard
	if err := r.db.First(&card, "card_number = ?", cardNumber).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("gift card with number %s not found", cardNumber)
		}
		return nil, fmt.Errorf("failed to get gift card by number %s: %w", cardNumber, err)
	}
	return &card, nil
}

// Create creates a new gift card in the database.
func (r *GORMGiftCardRepository) Create(card *models.GiftCard) error {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create gift card: %w", err)
	}
	return nil
}

// Update updates an existing gift card in the database.
func (r *GORMGiftCardRepository) Update(card *models.GiftCard) error {
	res := r.db.Save(card)
	if res.Error != nil {
		return fmt.Errorf("failed to update gift card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("gift card with ID %s not found for update", card.ID)
	}
	return nil
}

// CreateTransaction appends a ledger entry for a gift card.
func (r *GORMGiftCardRepository) CreateTransaction(tx *models.GiftCardTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create gift card transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the ledger for one gift card, newest first.
func (r *GORMGiftCardRepository) ListTransactions(giftCardID string) ([]models.GiftCardTransaction, error) {
	var txs []models.GiftCardTransaction
	err := r.db.
		Where("gift_card_id = ?", giftCardID).
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list gift card transactions: %w", err)
	}
	return txs, nil
}
