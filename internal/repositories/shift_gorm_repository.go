package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bottleshop/internal/models"
)

// GORMShiftRepository is a GORM implementation of ShiftRepository.
type GORMShiftRepository struct {
	db *gorm.DB
}

// NewGORMShiftRepository creates a new instance of GORMShiftRepository.
func NewGORMShiftRepository(db *gorm.DB) *GORMShiftRepository {
	return &GORMShiftRepository{
		db: db,
	}
}

// GetAll retrieves all shifts, newest first.
func (r *GORMShiftRepository) GetAll() ([]models.Shift, error) {
	var shifts []models.Shift
	if err := r.db.Order("start_time DESC").Find(&shifts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all shifts: %w", err)
	}
	return shifts, nil
}

// GetByID retrieves a single shift by its ID from the database.
func (r *GORMShiftRepository) GetByID(id string) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.First(&shift, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("shift with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get shift by ID %s: %w", id, err)
	}
	return &shift, nil
}

// GetActive retrieves the currently open shift, if any.
func (r *GORMShiftRepository) GetActive() (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.First(&shift, "is_active = ?", true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no active shift")
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	return &shift, nil
}

// Create creates a new shift in the database.
func (r *GORMShiftRepository) Create(shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.New().String()
	}
	if err := r.db.Create(shift).Error; err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

// Update updates an existing shift in the database.
func (r *GORMShiftRepository) Update(shift *models.Shift) error {
	res := r.db.Save(shift)
	if res.Error != nil {
		return fmt.Errorf("failed to update shift: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shift with ID %s not found for update", shift.ID)
	}
	return nil
}
