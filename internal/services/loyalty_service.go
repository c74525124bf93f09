package services

import (
	"fmt"
	"math"

	"bottleshop/internal/models"
	"bottleshop/internal/repositories"
)

// Loyalty program settings.
const (
	PointsPerDollar     = 1
	PointsToDollarRatio = 100 // 100 points = $1 of store credit
)

// Loyalty tiers by lifetime spend.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// LoyaltyStatus summarizes a customer's standing in the program.
type LoyaltyStatus struct {
	CustomerID             string  `json:"customer_id"`
	Name                   string  `json:"name"`
	CurrentPoints          int     `json:"current_points"`
	RedeemableValue        float64 `json:"redeemable_value"`
	TotalSpent             float64 `json:"total_spent"`
	Tier                   string  `json:"tier"`
	PointsToNextRedemption int     `json:"points_to_next_redemption"`
}

// LoyaltyService handles customer records and the loyalty program.
type LoyaltyService struct {
	customerRepo repositories.CustomerRepository
}

// NewLoyaltyService creates a new LoyaltyService.
func NewLoyaltyService(customerRepo repositories.CustomerRepository) *LoyaltyService {
	return &LoyaltyService{
		customerRepo: customerRepo,
	}
}

// GetAllCustomers retrieves all customers.
func (s *LoyaltyService) GetAllCustomers() ([]models.Customer, error) {
	return s.customerRepo.GetAll()
}

// GetCustomerByID retrieves a single customer by their ID.
func (s *LoyaltyService) GetCustomerByID(id string) (*models.Customer, error) {
	return s.customerRepo.GetByID(id)
}

// GetCustomerByPhone retrieves a single customer by their phone number.
func (s *LoyaltyService) GetCustomerByPhone(phone string) (*models.Customer, error) {
	return s.customerRepo.GetByPhone(phone)
}

// CreateCustomer creates a new customer.
func (s *LoyaltyService) CreateCustomer(customer *models.Customer) error {
	return s.customerRepo.Create(customer)
}

// UpdateCustomer updates an existing customer.
func (s *LoyaltyService) UpdateCustomer(customer *models.Customer) error {
	return s.customerRepo.Update(customer)
}

// DeleteCustomer deletes a customer by their ID.
func (s *LoyaltyService) DeleteCustomer(id string) error {
	return s.customerRepo.Delete(id)
}

// GetLoyaltyStatus returns the customer's points, tier, and redeemable
// value.
func (s *LoyaltyService) GetLoyaltyStatus(customerID string) (*LoyaltyStatus, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}

	return &LoyaltyStatus{
		CustomerID:             customer.ID,
		Name:                   customer.Name,
		CurrentPoints:          customer.LoyaltyPoints,
		RedeemableValue:        math.Round(float64(customer.LoyaltyPoints)/PointsToDollarRatio*100) / 100,
		TotalSpent:             customer.TotalSpent,
		Tier:                   TierFor(customer.TotalSpent),
		PointsToNextRedemption: pointsToNextRedemption(customer.LoyaltyPoints),
	}, nil
}

// RedeemPoints converts loyalty points to store credit dollars. The minimum
// redemption is one full ratio block and a customer can never go negative.
func (s *LoyaltyService) RedeemPoints(customerID string, points int) (float64, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return 0, err
	}

	if points < PointsToDollarRatio {
		return 0, fmt.Errorf("minimum %d points required for redemption", PointsToDollarRatio)
	}
	if points > customer.LoyaltyPoints {
		return 0, fmt.Errorf("customer has %d points, cannot redeem %d", customer.LoyaltyPoints, points)
	}

	customer.LoyaltyPoints -= points
	if err := s.customerRepo.Update(customer); err != nil {
		return 0, fmt.Errorf("failed to redeem points for customer %s: %w", customerID, err)
	}

	value := float64(points) / PointsToDollarRatio
	return math.Round(value*100) / 100, nil
}

// TierFor maps lifetime spend to a loyalty tier.
func TierFor(totalSpent float64) string {
	switch {
	case totalSpent >= 5000:
		return TierPlatinum
	case totalSpent >= 2000:
		return TierGold
	case totalSpent >= 500:
		return TierSilver
	default:
		return TierBronze
	}
}

func pointsToNextRedemption(points int) int {
	remainder := points % PointsToDollarRatio
	if remainder == 0 {
		return 0
	}
	return PointsToDollarRatio - remainder
}
