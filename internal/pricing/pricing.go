package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"bottleshop/internal/models"
)

// DefaultBaseTaxRate is the flat sales tax applied to every subtotal,
// before any category surtax. Overridable via BASE_TAX_RATE.
const DefaultBaseTaxRate = 0.0875

var (
	// ErrInvalidQuantity is returned when a cart line carries a quantity <= 0.
	ErrInvalidQuantity = errors.New("pricing: quantity must be positive")
	// ErrInvalidPrice is returned when a product carries a negative price.
	ErrInvalidPrice = errors.New("pricing: price must not be negative")
)

// AdmissionDecision is the outcome of checking whether a product may be
// added to the cart.
type AdmissionDecision int

const (
	// Allowed means the product may be added.
	Allowed AdmissionDecision = iota
	// RejectedOutOfStock means there is no stock to sell.
	RejectedOutOfStock
	// RejectedNeedsAgeVerification means the session must verify age first.
	RejectedNeedsAgeVerification
)

// String returns a stable identifier for the decision, used in API responses.
func (d AdmissionDecision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case RejectedOutOfStock:
		return "out_of_stock"
	case RejectedNeedsAgeVerification:
		return "needs_age_verification"
	default:
		return "unknown"
	}
}

// CartLine is one product plus its quantity. Callers must consolidate
// duplicate products into a single line before pricing: the case-price
// split is computed per line, so two lines of the same product would each
// be tiered independently.
type CartLine struct {
	Product  models.Product
	Quantity int
}

// TaxTable maps a category ID to its surtax rate (fractional, e.g. 0.05).
// A category missing from the table contributes no surtax.
type TaxTable map[string]float64

// Result holds the four checkout totals, each rounded to cents. They are
// always produced together so callers never recompute a subset.
type Result struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// Engine computes cart totals. It is stateless apart from the configured
// base tax rate and safe for concurrent use.
type Engine struct {
	baseTaxRate decimal.Decimal
}

// NewEngine creates an Engine with the given base sales tax rate.
func NewEngine(baseTaxRate float64) *Engine {
	return &Engine{baseTaxRate: decimal.NewFromFloat(baseTaxRate)}
}

// CanAddToCart decides whether a product may enter the cart. Out-of-stock
// takes precedence over the age gate: an unsellable product reports
// out-of-stock even when age verification is also missing. The function is
// pure; prompting for verification and remembering the session flag are the
// caller's concern.
func CanAddToCart(product *models.Product, ageVerified bool) AdmissionDecision {
	if product.StockQuantity <= 0 {
		return RejectedOutOfStock
	}
	if product.RequiresAgeVerification && !ageVerified {
		return RejectedNeedsAgeVerification
	}
	return Allowed
}

// RequiresAgeVerification reports whether any line in the cart is
// age-restricted. Used as the single checkout-time gate.
func RequiresAgeVerification(lines []CartLine) bool {
	for _, line := range lines {
		if line.Product.RequiresAgeVerification {
			return true
		}
	}
	return false
}

// ComputeSubtotal sums the line totals of the cart, applying the case-price
// split per line: full cases at the case price, the remainder at the unit
// price.
func (e *Engine) ComputeSubtotal(lines []CartLine) (float64, error) {
	subtotal, err := e.subtotal(lines)
	if err != nil {
		return 0, err
	}
	return round2(subtotal), nil
}

// ComputeTax returns the tax on a cart: subtotal times the base rate, plus
// each line's quantity times unit price times its category surtax rate.
// The surtax is assessed on full unit pricing even when the line was case
// discounted. Categories absent from the table contribute nothing.
func (e *Engine) ComputeTax(lines []CartLine, subtotal float64, taxes TaxTable) (float64, error) {
	tax, err := e.tax(lines, decimal.NewFromFloat(subtotal), taxes)
	if err != nil {
		return 0, err
	}
	return round2(tax), nil
}

// ComputeGiftCardDiscount returns the amount a gift card offsets against
// the pre-discount total: the lesser of its balance and the total when the
// card is active with a positive balance, zero otherwise. A nil card means
// no discount.
func (e *Engine) ComputeGiftCardDiscount(card *models.GiftCard, preDiscountTotal float64) float64 {
	return round2(giftCardDiscount(card, decimal.NewFromFloat(preDiscountTotal)))
}

// ComputeTotal prices the whole cart in one pass: subtotal, tax, gift card
// discount, and grand total. Intermediate arithmetic stays unrounded;
// each figure is rounded to cents only on the way out.
func (e *Engine) ComputeTotal(lines []CartLine, taxes TaxTable, card *models.GiftCard) (Result, error) {
	subtotal, err := e.subtotal(lines)
	if err != nil {
		return Result{}, err
	}
	tax, err := e.tax(lines, subtotal, taxes)
	if err != nil {
		return Result{}, err
	}

	preDiscount := subtotal.Add(tax)
	discount := giftCardDiscount(card, preDiscount)
	total := preDiscount.Sub(discount)

	return Result{
		Subtotal:       round2(subtotal),
		TaxAmount:      round2(tax),
		DiscountAmount: round2(discount),
		Total:          round2(total),
	}, nil
}

func (e *Engine) subtotal(lines []CartLine) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, line := range lines {
		lineTotal, err := lineTotal(line)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(lineTotal)
	}
	return sum, nil
}

func (e *Engine) tax(lines []CartLine, subtotal decimal.Decimal, taxes TaxTable) (decimal.Decimal, error) {
	tax := subtotal.Mul(e.baseTaxRate)
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return decimal.Zero, err
		}
		rate, ok := taxes[line.Product.CategoryID]
		if !ok || rate == 0 {
			continue
		}
		unitPrice := decimal.NewFromFloat(line.Product.Price)
		qty := decimal.NewFromInt(int64(line.Quantity))
		tax = tax.Add(unitPrice.Mul(qty).Mul(decimal.NewFromFloat(rate)))
	}
	return tax, nil
}

func lineTotal(line CartLine) (decimal.Decimal, error) {
	if err := validateLine(line); err != nil {
		return decimal.Zero, err
	}

	p := line.Product
	unitPrice := decimal.NewFromFloat(p.Price)
	qty := int64(line.Quantity)

	if p.CasePrice > 0 && p.CaseSize >= 1 && line.Quantity >= p.CaseSize {
		casePrice := decimal.NewFromFloat(p.CasePrice)
		cases := qty / int64(p.CaseSize)
		remainder := qty % int64(p.CaseSize)
		return casePrice.Mul(decimal.NewFromInt(cases)).
			Add(unitPrice.Mul(decimal.NewFromInt(remainder))), nil
	}
	return unitPrice.Mul(decimal.NewFromInt(qty)), nil
}

func giftCardDiscount(card *models.GiftCard, preDiscountTotal decimal.Decimal) decimal.Decimal {
	if card == nil || !card.IsActive || card.CurrentBalance <= 0 {
		return decimal.Zero
	}
	balance := decimal.NewFromFloat(card.CurrentBalance)
	if balance.GreaterThan(preDiscountTotal) {
		return preDiscountTotal
	}
	return balance
}

func validateLine(line CartLine) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if line.Product.Price < 0 || line.Product.CasePrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
