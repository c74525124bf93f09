package services

import (
	"fmt"
	"log"
	"time"

	"bottleshop/internal/models"
	"bottleshop/internal/pricing"
	"bottleshop/internal/repositories"
)

// EventPublisher is the subset of the RabbitMQ client the checkout flow
// needs. A nil publisher disables event publication.
type EventPublisher interface {
	PublishSaleCompleted(saleData map[string]interface{}) error
	PublishSaleRefunded(saleData map[string]interface{}) error
	PublishLowStockAlert(productData map[string]interface{}) error
}

// SaleLineRequest is one requested line of a sale: a product and how many
// units of it.
type SaleLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleRequest is the checkout payload from the register.
type CreateSaleRequest struct {
	Items         []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	CustomerID    string            `json:"customer_id" validate:"omitempty,uuid"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card"`
	AgeVerified   bool              `json:"age_verified"`
	GiftCardCode  string            `json:"gift_card_code" validate:"omitempty,len=16,numeric"`
}

// CheckoutService drives the sale flow: admission checks, pricing via the
// engine, stock decrement, gift card redemption, loyalty accrual, and event
// publication.
type CheckoutService struct {
	saleRepo     repositories.SaleRepository
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	customerRepo repositories.CustomerRepository
	giftCardRepo repositories.GiftCardRepository
	engine       *pricing.Engine
	events       EventPublisher
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	saleRepo repositories.SaleRepository,
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	customerRepo repositories.CustomerRepository,
	giftCardRepo repositories.GiftCardRepository,
	engine *pricing.Engine,
	events EventPublisher,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		customerRepo: customerRepo,
		giftCardRepo: giftCardRepo,
		engine:       engine,
		events:       events,
	}
}

// GetAllSales retrieves recent sales.
func (s *CheckoutService) GetAllSales(limit, offset int) ([]models.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.saleRepo.GetAll(limit, offset)
}

// GetSaleByID retrieves a single sale by its ID.
func (s *CheckoutService) GetSaleByID(id string) (*models.Sale, error) {
	return s.saleRepo.GetByID(id)
}

// CheckAdmission decides whether a product may be added to the cart for a
// session with the given age verification state.
func (s *CheckoutService) CheckAdmission(productID string, ageVerified bool) (pricing.AdmissionDecision, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	return pricing.CanAddToCart(product, ageVerified), nil
}

// CreateSale completes a checkout. The engine prices the consolidated cart;
// this method owns everything around it: the checkout-time age gate, stock
// checks and decrements, gift card redemption, loyalty accrual, and the
// sale.completed / stock.low events.
func (s *CheckoutService) CreateSale(req CreateSaleRequest) (*models.Sale, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}

	lines, err := s.buildCartLines(req.Items)
	if err != nil {
		return nil, err
	}

	// Checkout-time age gate: one check over the whole cart.
	if pricing.RequiresAgeVerification(lines) && !req.AgeVerified {
		return nil, fmt.Errorf("age verification required for alcohol purchase")
	}

	for _, line := range lines {
		if line.Product.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("insufficient stock for %s (requested: %d, available: %d)",
				line.Product.Name, line.Quantity, line.Product.StockQuantity)
		}
	}

	var giftCard *models.GiftCard
	if req.GiftCardCode != "" {
		giftCard, err = s.redeemableGiftCard(req.GiftCardCode)
		if err != nil {
			return nil, err
		}
	}

	taxes, err := s.taxTable()
	if err != nil {
		return nil, err
	}

	result, err := s.engine.ComputeTotal(lines, taxes, giftCard)
	if err != nil {
		return nil, fmt.Errorf("failed to price sale: %w", err)
	}

	sale := &models.Sale{
		CustomerID:     req.CustomerID,
		Subtotal:       result.Subtotal,
		TaxAmount:      result.TaxAmount,
		DiscountAmount: result.DiscountAmount,
		Total:          result.Total,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  models.PaymentStatusCompleted,
		AgeVerified:    req.AgeVerified,
	}
	if req.AgeVerified {
		now := time.Now()
		sale.AgeVerifiedAt = &now
	}
	if giftCard != nil {
		sale.GiftCardID = giftCard.ID
	}

	for _, line := range lines {
		item, err := s.buildSaleItem(line)
		if err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, item)
	}

	if err := s.saleRepo.Create(sale); err != nil {
		return nil, fmt.Errorf("failed to create sale in repository: %w", err)
	}

	s.applyInventory(lines)

	if giftCard != nil && result.DiscountAmount > 0 {
		if err := s.redeemGiftCard(giftCard, result.DiscountAmount, sale.ID); err != nil {
			return nil, err
		}
	}

	if req.CustomerID != "" {
		s.accrueLoyalty(req.CustomerID, sale.Total)
	}

	if s.events != nil {
		saleEvent := map[string]interface{}{
			"sale_id":        sale.ID,
			"customer_id":    sale.CustomerID,
			"subtotal":       sale.Subtotal,
			"tax_amount":     sale.TaxAmount,
			"discount":       sale.DiscountAmount,
			"total":          sale.Total,
			"payment_method": sale.PaymentMethod,
		}
		if err := s.events.PublishSaleCompleted(saleEvent); err != nil {
			log.Printf("Warning: Failed to publish sale completed event for sale %s: %v", sale.ID, err)
		}
	}

	return sale, nil
}

// RefundSale reverses a completed sale: stock and loyalty are restored, any
// gift card redemption is credited back, and the sale is marked refunded.
func (s *CheckoutService) RefundSale(id string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale.PaymentStatus == models.PaymentStatusRefunded {
		return nil, fmt.Errorf("sale %s already refunded", id)
	}

	for _, item := range sale.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			log.Printf("Warning: cannot restore stock for missing product %s: %v", item.ProductID, err)
			continue
		}
		product.StockQuantity += item.Quantity
		product.TimesSold -= item.Quantity
		if err := s.productRepo.Update(product); err != nil {
			log.Printf("Warning: failed to restore stock for product %s: %v", product.ID, err)
		}
	}

	if sale.GiftCardID != "" && sale.DiscountAmount > 0 {
		if err := s.refundGiftCard(sale.GiftCardID, sale.DiscountAmount, sale.ID); err != nil {
			log.Printf("Warning: failed to refund gift card for sale %s: %v", sale.ID, err)
		}
	}

	if sale.CustomerID != "" {
		if customer, err := s.customerRepo.GetByID(sale.CustomerID); err == nil {
			customer.TotalSpent -= sale.Total
			customer.LoyaltyPoints -= int(sale.Total)
			if customer.LoyaltyPoints < 0 {
				customer.LoyaltyPoints = 0
			}
			if err := s.customerRepo.Update(customer); err != nil {
				log.Printf("Warning: failed to reverse loyalty for customer %s: %v", customer.ID, err)
			}
		}
	}

	sale.PaymentStatus = models.PaymentStatusRefunded
	if err := s.saleRepo.Update(sale); err != nil {
		return nil, fmt.Errorf("failed to mark sale refunded: %w", err)
	}

	if s.events != nil {
		event := map[string]interface{}{
			"sale_id": sale.ID,
			"total":   sale.Total,
		}
		if err := s.events.PublishSaleRefunded(event); err != nil {
			log.Printf("Warning: Failed to publish sale refunded event for sale %s: %v", sale.ID, err)
		}
	}

	return sale, nil
}

// buildCartLines loads products and consolidates duplicate product lines
// into one, as the pricing engine requires.
func (s *CheckoutService) buildCartLines(items []SaleLineRequest) ([]pricing.CartLine, error) {
	quantities := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for product %s", item.Quantity, item.ProductID)
		}
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	lines := make([]pricing.CartLine, 0, len(order))
	for _, productID := range order {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", productID, err)
		}
		lines = append(lines, pricing.CartLine{Product: *product, Quantity: quantities[productID]})
	}
	return lines, nil
}

// buildSaleItem captures per-line pricing as it was charged, including the
// case-price flag and the averaged effective unit price.
func (s *CheckoutService) buildSaleItem(line pricing.CartLine) (models.SaleItem, error) {
	lineTotal, err := s.engine.ComputeSubtotal([]pricing.CartLine{line})
	if err != nil {
		return models.SaleItem{}, fmt.Errorf("failed to price line for product %s: %w", line.Product.ID, err)
	}

	isCasePrice := line.Product.CasePrice > 0 && line.Quantity >= line.Product.CaseSize
	unitPrice := line.Product.Price
	if isCasePrice {
		unitPrice = lineTotal / float64(line.Quantity) // Average price per unit
	}

	return models.SaleItem{
		ProductID:   line.Product.ID,
		ProductName: line.Product.Name,
		Quantity:    line.Quantity,
		UnitPrice:   unitPrice,
		IsCasePrice: isCasePrice,
		LineTotal:   lineTotal,
	}, nil
}

func (s *CheckoutService) taxTable() (pricing.TaxTable, error) {
	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load category tax rates: %w", err)
	}
	table := make(pricing.TaxTable, len(categories))
	for _, c := range categories {
		table[c.ID] = c.TaxRate
	}
	return table, nil
}

// redeemableGiftCard looks up a gift card and verifies it can pay.
func (s *CheckoutService) redeemableGiftCard(code string) (*models.GiftCard, error) {
	card, err := s.giftCardRepo.GetByCardNumber(code)
	if err != nil {
		return nil, err
	}
	if !card.IsActive {
		return nil, fmt.Errorf("gift card %s is not active", code)
	}
	if card.IsExpired(time.Now()) {
		return nil, fmt.Errorf("gift card %s has expired", code)
	}
	return card, nil
}

func (s *CheckoutService) redeemGiftCard(card *models.GiftCard, amount float64, saleID string) error {
	card.CurrentBalance -= amount
	if card.CurrentBalance < 0 {
		card.CurrentBalance = 0
	}
	if err := s.giftCardRepo.Update(card); err != nil {
		return fmt.Errorf("failed to redeem gift card %s: %w", card.CardNumber, err)
	}
	tx := &models.GiftCardTransaction{
		GiftCardID:   card.ID,
		SaleID:       saleID,
		Type:         models.GiftCardTxRedeem,
		Amount:       amount,
		BalanceAfter: card.CurrentBalance,
	}
	if err := s.giftCardRepo.CreateTransaction(tx); err != nil {
		log.Printf("Warning: failed to record gift card redemption for sale %s: %v", saleID, err)
	}
	return nil
}

func (s *CheckoutService) refundGiftCard(cardID string, amount float64, saleID string) error {
	card, err := s.giftCardRepo.GetByID(cardID)
	if err != nil {
		return err
	}
	card.CurrentBalance += amount
	if err := s.giftCardRepo.Update(card); err != nil {
		return fmt.Errorf("failed to credit gift card %s: %w", card.CardNumber, err)
	}
	tx := &models.GiftCardTransaction{
		GiftCardID:   card.ID,
		SaleID:       saleID,
		Type:         models.GiftCardTxRefund,
		Amount:       amount,
		BalanceAfter: card.CurrentBalance,
	}
	if err := s.giftCardRepo.CreateTransaction(tx); err != nil {
		log.Printf("Warning: failed to record gift card refund for sale %s: %v", saleID, err)
	}
	return nil
}

// applyInventory decrements stock and bumps sale counters, raising a low
// stock alert when a product crosses its threshold.
func (s *CheckoutService) applyInventory(lines []pricing.CartLine) {
	for _, line := range lines {
		product, err := s.productRepo.GetByID(line.Product.ID)
		if err != nil {
			log.Printf("Warning: cannot decrement stock for product %s: %v", line.Product.ID, err)
			continue
		}
		product.StockQuantity -= line.Quantity
		product.TimesSold += line.Quantity
		if err := s.productRepo.Update(product); err != nil {
			log.Printf("Warning: failed to decrement stock for product %s: %v", product.ID, err)
			continue
		}
		if s.events != nil && product.IsLowStock() {
			alert := map[string]interface{}{
				"product_id":     product.ID,
				"name":           product.Name,
				"stock_quantity": product.StockQuantity,
				"threshold":      product.LowStockThreshold,
			}
			if err := s.events.PublishLowStockAlert(alert); err != nil {
				log.Printf("Warning: Failed to publish low stock alert for product %s: %v", product.ID, err)
			}
		}
	}
}

// accrueLoyalty awards 1 point per whole dollar spent and tracks lifetime
// spend.
func (s *CheckoutService) accrueLoyalty(customerID string, total float64) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		log.Printf("Warning: cannot accrue loyalty for customer %s: %v", customerID, err)
		return
	}
	customer.TotalSpent += total
	customer.LoyaltyPoints += int(total)
	if err := s.customerRepo.Update(customer); err != nil {
		log.Printf("Warning: failed to update loyalty for customer %s: %v", customerID, err)
	}
}
