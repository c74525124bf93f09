package repositories

import (
	"bottleshop/internal/models"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	ActiveOnly bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByBarcode(barcode string) (*models.Product, error)
	Search(query string) ([]models.Product, error)
	ListLowStock() ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
