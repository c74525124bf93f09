package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"bottleshop/internal/models"
	"bottleshop/internal/repositories"
)

// GiftCardService handles business logic for gift cards and store credit.
type GiftCardService struct {
	giftCardRepo repositories.GiftCardRepository
}

// NewGiftCardService creates a new GiftCardService.
func NewGiftCardService(giftCardRepo repositories.GiftCardRepository) *GiftCardService {
	return &GiftCardService{
		giftCardRepo: giftCardRepo,
	}
}

// CreateGiftCardRequest is the payload for issuing a new gift card.
type CreateGiftCardRequest struct {
	InitialBalance float64 `json:"initial_balance" validate:"required,gt=0"`
	CardType       string  `json:"card_type" validate:"omitempty,oneof=gift store_credit promotional"`
	RecipientName  string  `json:"recipient_name" validate:"omitempty,max=200"`
	RecipientEmail string  `json:"recipient_email" validate:"omitempty,email"`
	ExpiresInDays  int     `json:"expires_in_days" validate:"gte=0"`
}

// CreateGiftCard issues and activates a new card with a generated 16-digit
// number and 4-digit PIN, recording the purchase in the ledger.
func (s *GiftCardService) CreateGiftCard(req CreateGiftCardRequest) (*models.GiftCard, error) {
	if req.InitialBalance <= 0 {
		return nil, fmt.Errorf("initial balance must be positive")
	}

	cardNumber, err := s.uniqueCardNumber()
	if err != nil {
		return nil, err
	}
	pin, err := randomDigits(4)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PIN: %w", err)
	}

	cardType := req.CardType
	if cardType == "" {
		cardType = "gift"
	}

	now := time.Now()
	card := &models.GiftCard{
		CardNumber:     cardNumber,
		PIN:            pin,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		CardType:       cardType,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		IsActive:       true,
		ActivatedAt:    &now,
	}
	if req.ExpiresInDays > 0 {
		expiry := now.AddDate(0, 0, req.ExpiresInDays)
		card.ExpiresAt = &expiry
	}

	if err := s.giftCardRepo.Create(card); err != nil {
		return nil, err
	}

	tx := &models.GiftCardTransaction{
		GiftCardID:   card.ID,
		Type:         models.GiftCardTxPurchase,
		Amount:       req.InitialBalance,
		BalanceAfter: req.InitialBalance,
	}
	if err := s.giftCardRepo.CreateTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to record gift card purchase: %w", err)
	}

	return card, nil
}

// LookupGiftCard returns a card by number after checking the PIN (when
// supplied), active flag, and expiry.
func (s *GiftCardService) LookupGiftCard(cardNumber, pin string) (*models.GiftCard, error) {
	card, err := s.giftCardRepo.GetByCardNumber(cardNumber)
	if err != nil {
		return nil, err
	}
	if pin != "" && card.PIN != pin {
		return nil, fmt.Errorf("invalid PIN for gift card %s", cardNumber)
	}
	if !card.IsActive {
		return nil, fmt.Errorf("gift card %s is not active", cardNumber)
	}
	if card.IsExpired(time.Now()) {
		return nil, fmt.Errorf("gift card %s has expired", cardNumber)
	}
	return card, nil
}

// GetTransactions returns the ledger for a card.
func (s *GiftCardService) GetTransactions(cardNumber string) ([]models.GiftCardTransaction, error) {
	card, err := s.giftCardRepo.GetByCardNumber(cardNumber)
	if err != nil {
		return nil, err
	}
	return s.giftCardRepo.ListTransactions(card.ID)
}

// uniqueCardNumber generates a 16-digit card number not already in use.
func (s *GiftCardService) uniqueCardNumber() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		number, err := randomDigits(16)
		if err != nil {
			return "", fmt.Errorf("failed to generate card number: %w", err)
		}
		if _, err := s.giftCardRepo.GetByCardNumber(number); err != nil {
			// Not found means the number is free.
			return number, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique card number")
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
