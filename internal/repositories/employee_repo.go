package repositories

import "bottleshop/internal/models"

// EmployeeRepository defines the interface for employee data access.
type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByUsername(username string) (*models.Employee, error)
	GetByEmail(email string) (*models.Employee, error)
	GetByID(id string) (*models.Employee, error)
}
