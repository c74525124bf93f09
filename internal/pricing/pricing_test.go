package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bottleshop/internal/models"
	"bottleshop/internal/pricing"
)

func line(p models.Product, qty int) pricing.CartLine {
	return pricing.CartLine{Product: p, Quantity: qty}
}

func TestCanAddToCart(t *testing.T) {
	inStock := &models.Product{StockQuantity: 5, RequiresAgeVerification: false}
	restricted := &models.Product{StockQuantity: 5, RequiresAgeVerification: true}
	outOfStock := &models.Product{StockQuantity: 0, RequiresAgeVerification: false}
	outOfStockRestricted := &models.Product{StockQuantity: 0, RequiresAgeVerification: true}

	// Unrestricted products never need verification.
	assert.Equal(t, pricing.Allowed, pricing.CanAddToCart(inStock, false))
	assert.Equal(t, pricing.Allowed, pricing.CanAddToCart(inStock, true))

	// Restricted products need the session flag.
	assert.Equal(t, pricing.RejectedNeedsAgeVerification, pricing.CanAddToCart(restricted, false))
	assert.Equal(t, pricing.Allowed, pricing.CanAddToCart(restricted, true))

	// Out-of-stock wins regardless of verification state or restriction flag.
	assert.Equal(t, pricing.RejectedOutOfStock, pricing.CanAddToCart(outOfStock, false))
	assert.Equal(t, pricing.RejectedOutOfStock, pricing.CanAddToCart(outOfStock, true))
	assert.Equal(t, pricing.RejectedOutOfStock, pricing.CanAddToCart(outOfStockRestricted, false))
	assert.Equal(t, pricing.RejectedOutOfStock, pricing.CanAddToCart(outOfStockRestricted, true))
}

func TestAdmissionDecisionString(t *testing.T) {
	assert.Equal(t, "allowed", pricing.Allowed.String())
	assert.Equal(t, "out_of_stock", pricing.RejectedOutOfStock.String())
	assert.Equal(t, "needs_age_verification", pricing.RejectedNeedsAgeVerification.String())
}

func TestRequiresAgeVerification(t *testing.T) {
	soda := models.Product{Price: 2.50, RequiresAgeVerification: false}
	whiskey := models.Product{Price: 35.00, RequiresAgeVerification: true}

	assert.False(t, pricing.RequiresAgeVerification(nil))
	assert.False(t, pricing.RequiresAgeVerification([]pricing.CartLine{line(soda, 2)}))
	assert.True(t, pricing.RequiresAgeVerification([]pricing.CartLine{line(soda, 2), line(whiskey, 1)}))
}

func TestComputeSubtotal_CasePricing(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultBaseTaxRate)

	beer := models.Product{Price: 12.00, CasePrice: 120.00, CaseSize: 12}

	// 15 units: 1 case at 120.00 plus 3 singles at 12.00.
	subtotal, err := engine.ComputeSubtotal([]pricing.CartLine{line(beer, 15)})
	assert.NoError(t, err)
	assert.Equal(t, 156.00, subtotal)

	// Exactly one case: boundary, equals the case price.
	subtotal, err = engine.ComputeSubtotal([]pricing.CartLine{line(beer, 12)})
	assert.NoError(t, err)
	assert.Equal(t, 120.00, subtotal)

	// Below the case size: plain unit pricing.
	subtotal, err = engine.ComputeSubtotal([]pricing.CartLine{line(beer, 11)})
	assert.NoError(t, err)
	assert.Equal(t, 132.00, subtotal)

	// Two full cases plus remainder.
	subtotal, err = engine.ComputeSubtotal([]pricing.CartLine{line(beer, 26)})
	assert.NoError(t, err)
	assert.Equal(t, 264.00, subtotal)
}

func TestComputeSubtotal_NoCasePrice(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultBaseTaxRate)

	wine := models.Product{Price: 18.50, CaseSize: 1}
	subtotal, err := engine.ComputeSubtotal([]pricing.CartLine{line(wine, 3)})
	assert.NoError(t, err)
	assert.Equal(t, 55.50, subtotal)

	// Multiple lines sum independently.
	vodka := models.Product{Price: 24.99, CaseSize: 1}
	subtotal, err = engine.ComputeSubtotal([]pricing.CartLine{line(wine, 2), line(vodka, 1)})
	assert.NoError(t, err)
	assert.Equal(t, 61.99, subtotal)
}

func TestComputeSubtotal_MonotonicInQuantity(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultBaseTaxRate)
	beer := models.Product{Price: 12.00, CasePrice: 120.00, CaseSize: 12}

	prev := 0.0
	for qty := 1; qty <= 40; qty++ {
		subtotal, err := engine.ComputeSubtotal([]pricing.CartLine{line(beer, qty)})
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, subtotal, prev, "subtotal decreased at qty %d", qty)
		prev = subtotal
	}
}

func TestComputeSubtotal_InvalidInput(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultBaseTaxRate)

	_, err := engine.ComputeSubtotal([]pricing.CartLine{line(models.Product{Price: 10}, 0)})
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = engine.ComputeSubtotal([]pricing.CartLine{line(models.Product{Price: 10}, -3)})
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = engine.ComputeSubtotal([]pricing.CartLine{line(models.Product{Price: -1}, 1)})
	assert.ErrorIs(t, err, pricing.ErrInvalidPrice)

	_, err = engine.ComputeSubtotal([]pricing.CartLine{line(models.Product{Price: 10, CasePrice: -5, CaseSize: 6}, 1)})
	assert.ErrorIs(t, err, pricing.ErrInvalidPrice)
}

func TestComputeTax(t *testing.T) {
	engine := pricing.NewEngine(0.0875)
	taxes := pricing.TaxTable{"cat-wine": 0.05}

	// Spec arithmetic: $20 x 2, 5% surtax.
	// tax = 40*0.0875 + 2*20*0.05 = 3.50 + 2.00 = 5.50
	wine := models.Product{Price: 20.00, CategoryID: "cat-wine"}
	lines := []pricing.CartLine{line(wine, 2)}
	tax, err := engine.ComputeTax(lines, 40.00, taxes)
	assert.NoError(t, err)
	assert.Equal(t, 5.50, tax)

	// Unknown category: base rate only, never an error.
	beer := models.Product{Price: 20.00, CategoryID: "cat-missing"}
	tax, err = engine.ComputeTax([]pricing.CartLine{line(beer, 2)}, 40.00, taxes)
	assert.NoError(t, err)
	assert.Equal(t, 3.50, tax)

	// Surtax is assessed on unit pricing even when the subtotal was case
	// discounted.
	caseBeer := models.Product{Price: 12.00, CasePrice: 120.00, CaseSize: 12, CategoryID: "cat-wine"}
	subtotal, err := engine.ComputeSubtotal([]pricing.CartLine{line(caseBeer, 12)})
	assert.NoError(t, err)
	assert.Equal(t, 120.00, subtotal)
	tax, err = engine.ComputeTax([]pricing.CartLine{line(caseBeer, 12)}, subtotal, taxes)
	assert.NoError(t, err)
	// 120*0.0875 + 12*12.00*0.05 = 10.50 + 7.20
	assert.Equal(t, 17.70, tax)
}

func TestComputeGiftCardDiscount(t *testing.T) {
	engine := pricing.NewEngine(pricing.DefaultBaseTaxRate)

	// Balance below the total: full balance applies.
	card := &models.GiftCard{CurrentBalance: 10.00, IsActive: true}
	assert.Equal(t, 10.00, engine.ComputeGiftCardDiscount(card, 45.50))

	// Balance above the total: capped at the total.
	card = &models.GiftCard{CurrentBalance: 60.00, IsActive: true}
	assert.Equal(t, 45.50, engine.ComputeGiftCardDiscount(card, 45.50))

	// Inactive card, zero balance, or no card at all: no discount.
	card = &models.GiftCard{CurrentBalance: 10.00, IsActive: false}
	assert.Equal(t, 0.00, engine.ComputeGiftCardDiscount(card, 45.50))
	card = &models.GiftCard{CurrentBalance: 0, IsActive: true}
	assert.Equal(t, 0.00, engine.ComputeGiftCardDiscount(card, 45.50))
	assert.Equal(t, 0.00, engine.ComputeGiftCardDiscount(nil, 45.50))
}

func TestComputeTotal(t *testing.T) {
	engine := pricing.NewEngine(0.0875)
	taxes := pricing.TaxTable{"cat-wine": 0.05}
	wine := models.Product{Price: 20.00, CategoryID: "cat-wine"}
	lines := []pricing.CartLine{line(wine, 2)}

	// No gift card.
	result, err := engine.ComputeTotal(lines, taxes, nil)
	assert.NoError(t, err)
	assert.Equal(t, 40.00, result.Subtotal)
	assert.Equal(t, 5.50, result.TaxAmount)
	assert.Equal(t, 0.00, result.DiscountAmount)
	assert.Equal(t, 45.50, result.Total)

	// Gift card partially covers the total.
	card := &models.GiftCard{CurrentBalance: 10.00, IsActive: true}
	result, err = engine.ComputeTotal(lines, taxes, card)
	assert.NoError(t, err)
	assert.Equal(t, 10.00, result.DiscountAmount)
	assert.Equal(t, 35.50, result.Total)

	// Gift card exceeds the total: capped, total exactly zero.
	card = &models.GiftCard{CurrentBalance: 60.00, IsActive: true}
	result, err = engine.ComputeTotal(lines, taxes, card)
	assert.NoError(t, err)
	assert.Equal(t, 45.50, result.DiscountAmount)
	assert.Equal(t, 0.00, result.Total)
	assert.GreaterOrEqual(t, result.Total, 0.00)
}

func TestComputeTotal_Idempotent(t *testing.T) {
	engine := pricing.NewEngine(0.0875)
	taxes := pricing.TaxTable{"cat-beer": 0.03}
	beer := models.Product{Price: 12.00, CasePrice: 120.00, CaseSize: 12, CategoryID: "cat-beer"}
	lines := []pricing.CartLine{line(beer, 15)}
	card := &models.GiftCard{CurrentBalance: 25.00, IsActive: true}

	first, err := engine.ComputeTotal(lines, taxes, card)
	assert.NoError(t, err)
	second, err := engine.ComputeTotal(lines, taxes, card)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeTotal_PropagatesValidationErrors(t *testing.T) {
	engine := pricing.NewEngine(0.0875)

	_, err := engine.ComputeTotal([]pricing.CartLine{line(models.Product{Price: 10}, 0)}, nil, nil)
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = engine.ComputeTotal([]pricing.CartLine{line(models.Product{Price: -2}, 1)}, nil, nil)
	assert.ErrorIs(t, err, pricing.ErrInvalidPrice)
}

func TestComputeTotal_NoRoundingDrift(t *testing.T) {
	engine := pricing.NewEngine(0.0875)

	// Prices that misbehave under binary floating point. Decimal internals
	// must keep the line sum exact before the single rounding at the end.
	nickel := models.Product{Price: 0.10, CaseSize: 1}
	lines := make([]pricing.CartLine, 0, 10)
	for i := 0; i < 10; i++ {
		p := nickel
		p.ID = string(rune('a' + i))
		lines = append(lines, line(p, 1))
	}
	result, err := engine.ComputeTotal(lines, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1.00, result.Subtotal)
	// 1.00 * 0.0875 rounds to 0.09.
	assert.Equal(t, 0.09, result.TaxAmount)
	assert.Equal(t, 1.09, result.Total)
}
