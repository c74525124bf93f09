package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bottleshop/internal/handlers"
	"bottleshop/internal/middleware"
	"bottleshop/internal/models"
	"bottleshop/internal/pricing"
	"bottleshop/internal/repositories"
	"bottleshop/internal/services"
)

var (
	app *fiber.App

	wineCategory models.Category
	beerCategory models.Category
	chardonnay   models.Product // $20, wine surtax 0.05
	tableWine    models.Product // $12 unit, $120 case of 12
	soldOutGin   models.Product // zero stock

	tokenOnce sync.Once
	token     string
)

func TestMain(m *testing.M) {
	db, err := gorm.Open(sqlite.Open("file:handlers_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.Customer{},
		&models.GiftCard{}, &models.GiftCardTransaction{},
		&models.Sale{}, &models.SaleItem{}, &models.Shift{}, &models.Employee{},
	); err != nil {
		log.Fatalf("Failed to migrate test database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	giftCardRepo := repositories.NewGORMGiftCardRepository(db)
	saleRepo := repositories.NewGORMSaleRepository(db)
	shiftRepo := repositories.NewGORMShiftRepository(db)
	employeeRepo := repositories.NewGORMEmployeeRepository(db)

	seedTestCatalog(productRepo, categoryRepo)

	engine := pricing.NewEngine(pricing.DefaultBaseTaxRate)
	authService := services.NewAuthService(employeeRepo, "integration-test-secret")
	catalogService := services.NewCatalogService(productRepo, categoryRepo)
	loyaltyService := services.NewLoyaltyService(customerRepo)
	giftCardService := services.NewGiftCardService(giftCardRepo)
	shiftService := services.NewShiftService(shiftRepo, saleRepo)
	checkoutService := services.NewCheckoutService(
		saleRepo, productRepo, categoryRepo, customerRepo, giftCardRepo,
		engine, nil,
	)

	app = fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(catalogService).RegisterRoutes(protected)
	handlers.NewCategoryHandler(catalogService).RegisterRoutes(protected)
	handlers.NewSaleHandler(checkoutService).RegisterRoutes(protected)
	handlers.NewCustomerHandler(loyaltyService).RegisterRoutes(protected)
	handlers.NewGiftCardHandler(giftCardService).RegisterRoutes(protected)
	handlers.NewShiftHandler(shiftService).RegisterRoutes(protected)

	os.Exit(m.Run())
}

func seedTestCatalog(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) {
	wineCategory = models.Category{Name: "Wine", TaxRate: 0.05}
	beerCategory = models.Category{Name: "Beer", TaxRate: 0.03}
	for _, c := range []*models.Category{&wineCategory, &beerCategory} {
		if err := categoryRepo.Create(c); err != nil {
			log.Fatalf("Failed to seed category %s: %v", c.Name, err)
		}
	}

	chardonnay = models.Product{
		Name: "Coastal Chardonnay", CategoryID: wineCategory.ID,
		Price: 20.00, StockQuantity: 500, LowStockThreshold: 10, Size: "750ml",
	}
	tableWine = models.Product{
		Name: "House Table Red", CategoryID: wineCategory.ID,
		Price: 12.00, CasePrice: 120.00, CaseSize: 12,
		StockQuantity: 500, LowStockThreshold: 10, Size: "750ml",
	}
	soldOutGin = models.Product{
		Name: "Allocated Gin", CategoryID: wineCategory.ID,
		Price: 45.00, StockQuantity: 0, LowStockThreshold: 2, Size: "750ml",
	}
	for _, p := range []*models.Product{&chardonnay, &tableWine, &soldOutGin} {
		if err := productRepo.Create(p); err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.Name, err)
		}
	}
}

// authToken registers and logs in a test cashier once, returning the JWT
// used by all authenticated requests.
func authToken(t *testing.T) string {
	t.Helper()
	tokenOnce.Do(func() {
		register := map[string]interface{}{
			"username": "test.cashier",
			"email":    "cashier@example.com",
			"Password": "secret123",
		}
		resp := doJSON(t, http.MethodPost, "/api/v1/auth/register", register, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		login := map[string]interface{}{
			"username": "test.cashier",
			"password": "secret123",
		}
		resp = doJSON(t, http.MethodPost, "/api/v1/auth/login", login, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		token = body["token"]
		require.NotEmpty(t, token)
	})
	return token
}

func doJSON(t *testing.T, method, path string, payload interface{}, bearer string) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAuthRequired(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductSearch(t *testing.T) {
	bearer := authToken(t)

	resp := doJSON(t, http.MethodGet, "/api/v1/products/search?q=chardonnay", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	decodeBody(t, resp, &products)
	require.Len(t, products, 1)
	assert.Equal(t, chardonnay.ID, products[0].ID)
}

func TestCheckoutTotals(t *testing.T) {
	bearer := authToken(t)

	// 2 bottles at $20: subtotal 40, tax 40*0.0875 + 2*20*0.05 = 5.50
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": chardonnay.ID, "quantity": 2},
		},
		"payment_method": "card",
		"age_verified":   true,
	}
	resp := doJSON(t, http.MethodPost, "/api/v1/sales/", payload, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale models.Sale
	decodeBody(t, resp, &sale)
	assert.Equal(t, 40.00, sale.Subtotal)
	assert.Equal(t, 5.50, sale.TaxAmount)
	assert.Equal(t, 45.50, sale.Total)
	assert.Equal(t, models.PaymentStatusCompleted, sale.PaymentStatus)

	// The stock decrement must be visible through the catalog.
	resp = doJSON(t, http.MethodGet, "/api/v1/products/"+chardonnay.ID, nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.Equal(t, 498, product.StockQuantity)
}

func TestCheckoutCasePricing(t *testing.T) {
	bearer := authToken(t)

	// 15 units at $12 with a $120 case of 12: one case plus 3 singles.
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": tableWine.ID, "quantity": 15},
		},
		"age_verified": true,
	}
	resp := doJSON(t, http.MethodPost, "/api/v1/sales/", payload, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale models.Sale
	decodeBody(t, resp, &sale)
	assert.Equal(t, 156.00, sale.Subtotal)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].IsCasePrice)
}

func TestCheckoutAgeGate(t *testing.T) {
	bearer := authToken(t)

	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": chardonnay.ID, "quantity": 1},
		},
		"age_verified": false,
	}
	resp := doJSON(t, http.MethodPost, "/api/v1/sales/", payload, bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartAdmission(t *testing.T) {
	bearer := authToken(t)

	// Out of stock wins over the missing age verification.
	resp := doJSON(t, http.MethodGet,
		fmt.Sprintf("/api/v1/cart/admission?product_id=%s&age_verified=false", soldOutGin.ID), nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decision map[string]interface{}
	decodeBody(t, resp, &decision)
	assert.Equal(t, "out_of_stock", decision["decision"])
	assert.Equal(t, false, decision["allowed"])

	resp = doJSON(t, http.MethodGet,
		fmt.Sprintf("/api/v1/cart/admission?product_id=%s&age_verified=true", chardonnay.ID), nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &decision)
	assert.Equal(t, "allowed", decision["decision"])
	assert.Equal(t, true, decision["allowed"])
}

func TestGiftCardCheckout(t *testing.T) {
	bearer := authToken(t)

	resp := doJSON(t, http.MethodPost, "/api/v1/gift-cards/", map[string]interface{}{
		"initial_balance": 10.00,
	}, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var card models.GiftCard
	decodeBody(t, resp, &card)
	require.Len(t, card.CardNumber, 16)

	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": chardonnay.ID, "quantity": 2},
		},
		"age_verified":   true,
		"gift_card_code": card.CardNumber,
	}
	resp = doJSON(t, http.MethodPost, "/api/v1/sales/", payload, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale models.Sale
	decodeBody(t, resp, &sale)
	assert.Equal(t, 10.00, sale.DiscountAmount)
	assert.Equal(t, 35.50, sale.Total)

	// The card is now drained.
	resp = doJSON(t, http.MethodGet, "/api/v1/gift-cards/"+card.CardNumber, nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &card)
	assert.Equal(t, 0.00, card.CurrentBalance)
}

func TestShiftLifecycle(t *testing.T) {
	bearer := authToken(t)

	resp := doJSON(t, http.MethodPost, "/api/v1/shifts/start", map[string]interface{}{
		"cashier_name": "Jesse",
		"opening_cash": 150.00,
	}, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A second open shift is rejected.
	resp = doJSON(t, http.MethodPost, "/api/v1/shifts/start", map[string]interface{}{
		"cashier_name": "Morgan",
	}, bearer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, "/api/v1/shifts/current", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, "/api/v1/shifts/end", map[string]interface{}{
		"closing_cash": 150.00,
	}, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var shift models.Shift
	decodeBody(t, resp, &shift)
	assert.False(t, shift.IsActive)

	resp = doJSON(t, http.MethodGet, "/api/v1/shifts/current", nil, bearer)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomerLoyaltyEndpoints(t *testing.T) {
	bearer := authToken(t)

	resp := doJSON(t, http.MethodPost, "/api/v1/customers/", map[string]interface{}{
		"name":  "Pat Doyle",
		"phone": "555-0101",
	}, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var customer models.Customer
	decodeBody(t, resp, &customer)

	// A sale attributed to the customer accrues one point per dollar.
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": chardonnay.ID, "quantity": 2},
		},
		"customer_id":  customer.ID,
		"age_verified": true,
	}
	resp = doJSON(t, http.MethodPost, "/api/v1/sales/", payload, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, "/api/v1/customers/"+customer.ID+"/loyalty", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status services.LoyaltyStatus
	decodeBody(t, resp, &status)
	assert.Equal(t, 45, status.CurrentPoints) // floor(45.50)
	assert.Equal(t, 45.50, status.TotalSpent)
	assert.Equal(t, services.TierBronze, status.Tier)

	// Below the minimum redemption block.
	resp = doJSON(t, http.MethodPost, "/api/v1/customers/"+customer.ID+"/loyalty/redeem",
		map[string]interface{}{"points": 45}, bearer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
