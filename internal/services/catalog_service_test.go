package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottleshop/internal/models"
	"bottleshop/internal/repositories"
	"bottleshop/internal/services"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCatalogService(productRepo, categoryRepo)

	categoryRepo.On("GetByID", "cat-wine").
		Return(&models.Category{ID: "cat-wine", Name: "Wine", TaxRate: 0.05}, nil)

	product := &models.Product{
		Name: "Coastal Chardonnay", CategoryID: "cat-wine",
		Price: 20.00, StockQuantity: 24,
	}
	require.NoError(t, service.CreateProduct(product))

	// A zero case size normalizes to 1, meaning no case tier.
	assert.Equal(t, 1, product.CaseSize)
	assert.NotEmpty(t, product.ID)

	categoryRepo.AssertExpectations(t)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCatalogService(productRepo, categoryRepo)

	categoryRepo.On("GetByID", "cat-missing").
		Return(nil, fmt.Errorf("category with ID cat-missing not found"))

	err := service.CreateProduct(&models.Product{
		Name: "Orphan Lager", CategoryID: "cat-missing", Price: 3.00,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")

	products, err := productRepo.GetAll(repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogService_SearchAndLowStock(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	service := services.NewCatalogService(productRepo, new(MockCategoryRepo))

	seed := []models.Product{
		{Name: "Hop Harbor IPA", Brand: "Hop Harbor", Price: 2.50, StockQuantity: 4, LowStockThreshold: 10, IsActive: true},
		{Name: "Coastal Chardonnay", Price: 20.00, StockQuantity: 40, LowStockThreshold: 10, IsActive: true},
	}
	for i := range seed {
		require.NoError(t, productRepo.Create(&seed[i]))
	}

	matches, err := service.SearchProducts("hop")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Hop Harbor IPA", matches[0].Name)

	low, err := service.GetLowStockProducts()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Hop Harbor IPA", low[0].Name)
}

func TestCatalogService_TaxTable(t *testing.T) {
	categoryRepo := new(MockCategoryRepo)
	service := services.NewCatalogService(repositories.NewMockProductRepository(), categoryRepo)

	categoryRepo.On("GetAll").Return([]models.Category{
		{ID: "cat-wine", Name: "Wine", TaxRate: 0.05},
		{ID: "cat-beer", Name: "Beer", TaxRate: 0.03},
	}, nil)

	table, err := service.TaxTable()
	require.NoError(t, err)
	assert.Equal(t, 0.05, table["cat-wine"])
	assert.Equal(t, 0.03, table["cat-beer"])
	assert.Zero(t, table["cat-unknown"])
}
