package repositories

import "bottleshop/internal/models"

// ShiftRepository defines the interface for shift data access.
type ShiftRepository interface {
	GetAll() ([]models.Shift, error)
	GetByID(id string) (*models.Shift, error)
	GetActive() (*models.Shift, error)
	Create(shift *models.Shift) error
	Update(shift *models.Shift) error
}
