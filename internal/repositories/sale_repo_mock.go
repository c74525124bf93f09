package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bottleshop/internal/models"
)

// MockSaleRepository is an in-memory implementation of SaleRepository.
type MockSaleRepository struct {
	sales map[string]models.Sale
	mu    sync.RWMutex
}

// NewMockSaleRepository creates a new instance of MockSaleRepository.
func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{
		sales: make(map[string]models.Sale),
	}
}

// GetAll returns all sales. Limit/offset are applied naively over map order.
func (r *MockSaleRepository) GetAll(limit, offset int) ([]models.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	saleList := make([]models.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		saleList = append(saleList, s)
	}
	if offset >= len(saleList) {
		return []models.Sale{}, nil
	}
	saleList = saleList[offset:]
	if limit > 0 && limit < len(saleList) {
		saleList = saleList[:limit]
	}
	return saleList, nil
}

// GetByID returns a sale by its ID.
func (r *MockSaleRepository) GetByID(id string) (*models.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sale, ok := r.sales[id]
	if !ok {
		return nil, fmt.Errorf("sale with ID %s not found", id)
	}
	return &sale, nil
}

// ListBetween returns completed sales created within [start, end).
func (r *MockSaleRepository) ListBetween(start, end time.Time) ([]models.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sales []models.Sale
	for _, s := range r.sales {
		if s.PaymentStatus != models.PaymentStatusCompleted {
			continue
		}
		if !s.CreatedAt.Before(start) && s.CreatedAt.Before(end) {
			sales = append(sales, s)
		}
	}
	return sales, nil
}

// Create adds a new sale.
func (r *MockSaleRepository) Create(sale *models.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	for i := range sale.Items {
		if sale.Items[i].ID == "" {
			sale.Items[i].ID = uuid.New().String()
		}
		sale.Items[i].SaleID = sale.ID
	}
	sale.CreatedAt = time.Now()
	sale.UpdatedAt = time.Now()
	r.sales[sale.ID] = *sale
	return nil
}

// Update replaces an existing sale.
func (r *MockSaleRepository) Update(sale *models.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sales[sale.ID]
	if !ok {
		return fmt.Errorf("sale with ID %s not found for update", sale.ID)
	}
	sale.UpdatedAt = time.Now()
	r.sales[sale.ID] = *sale
	return nil
}
