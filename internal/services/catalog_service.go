package services

import (
	"fmt"

	"bottleshop/internal/models"
	"bottleshop/internal/pricing"
	"bottleshop/internal/repositories"
)

// CatalogService handles business logic for products and categories.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GetProducts retrieves products, optionally filtered by category and
// active flag.
func (s *CatalogService) GetProducts(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.productRepo.GetAll(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// GetProductByBarcode retrieves a single product by scanned barcode.
func (s *CatalogService) GetProductByBarcode(barcode string) (*models.Product, error) {
	return s.productRepo.GetByBarcode(barcode)
}

// SearchProducts finds products by name, brand, SKU, or barcode.
func (s *CatalogService) SearchProducts(query string) ([]models.Product, error) {
	return s.productRepo.Search(query)
}

// GetLowStockProducts returns products at or below their reorder threshold.
func (s *CatalogService) GetLowStockProducts() ([]models.Product, error) {
	return s.productRepo.ListLowStock()
}

// CreateProduct creates a new product. When a category is given it must
// exist, so every product resolves to a tax rate at checkout.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	if product.CategoryID != "" {
		if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
			return fmt.Errorf("invalid category for product: %w", err)
		}
	}
	if product.CaseSize < 1 {
		product.CaseSize = 1
	}
	return s.productRepo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	if product.CategoryID != "" {
		if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
			return fmt.Errorf("invalid category for product: %w", err)
		}
	}
	return s.productRepo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// GetCategories retrieves all categories.
func (s *CatalogService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CatalogService) GetCategoryByID(id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	return s.categoryRepo.Create(category)
}

// UpdateCategory updates an existing category.
func (s *CatalogService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

// DeleteCategory deletes a category by its ID.
func (s *CatalogService) DeleteCategory(id string) error {
	return s.categoryRepo.Delete(id)
}

// TaxTable builds the category surtax lookup consumed by the pricing
// engine.
func (s *CatalogService) TaxTable() (pricing.TaxTable, error) {
	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to build tax table: %w", err)
	}
	table := make(pricing.TaxTable, len(categories))
	for _, c := range categories {
		table[c.ID] = c.TaxRate
	}
	return table, nil
}
