package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bottleshop/internal/models"
)

// GORMSaleRepository is a GORM implementation of SaleRepository.
type GORMSaleRepository struct {
	db *gorm.DB
}

// NewGORMSaleRepository creates a new instance of GORMSaleRepository.
func NewGORMSaleRepository(db *gorm.DB) *GORMSaleRepository {
	return &GORMSaleRepository{
		db: db,
	}
}

// GetAll retrieves sales from the database, newest first.
func (r *GORMSaleRepository) GetAll(limit, offset int) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales: %w", err)
	}
	return sales, nil
}

// GetByID retrieves a single sale with its items by ID.
func (r *GORMSaleRepository) GetByID(id string) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("sale with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get sale by ID %s: %w", id, err)
	}
	return &sale, nil
}

// ListBetween returns completed sales created within [start, end).
func (r *GORMSaleRepository) ListBetween(start, end time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales between %s and %s: %w", start, end, err)
	}
	return sales, nil
}

// Create creates a new sale and its items in the database.
func (r *GORMSaleRepository) Create(sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	for i := range sale.Items {
		if sale.Items[i].ID == "" {
			sale.Items[i].ID = uuid.New().String()
		}
		sale.Items[i].SaleID = sale.ID
	}
	if err := r.db.Create(sale).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// Update updates an existing sale in the database.
func (r *GORMSaleRepository) Update(sale *models.Sale) error {
	res := r.db.Save(sale)
	if res.Error != nil {
		return fmt.Errorf("failed to update sale: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sale with ID %s not found for update", sale.ID)
	}
	return nil
}
