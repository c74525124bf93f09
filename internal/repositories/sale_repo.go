package repositories

import (
	"time"

	"bottleshop/internal/models"
)

// SaleRepository defines the interface for sale data access.
type SaleRepository interface {
	GetAll(limit, offset int) ([]models.Sale, error)
	GetByID(id string) (*models.Sale, error)
	ListBetween(start, end time.Time) ([]models.Sale, error)
	Create(sale *models.Sale) error
	Update(sale *models.Sale) error
}
