package services

import (
	"fmt"
	"sort"
	"time"

	"bottleshop/internal/repositories"
)

// DailySummary aggregates one day of completed sales.
type DailySummary struct {
	Date         string  `json:"date"`
	SaleCount    int     `json:"sale_count"`
	Revenue      float64 `json:"revenue"`
	TaxCollected float64 `json:"tax_collected"`
	Discounts    float64 `json:"discounts"`
	CashSales    float64 `json:"cash_sales"`
	CardSales    float64 `json:"card_sales"`
}

// TopSeller is one entry of the best-sellers report.
type TopSeller struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	TimesSold int    `json:"times_sold"`
}

// ReportService produces back office reports over sales and catalog data.
type ReportService struct {
	saleRepo    repositories.SaleRepository
	productRepo repositories.ProductRepository
}

// NewReportService creates a new ReportService.
func NewReportService(saleRepo repositories.SaleRepository, productRepo repositories.ProductRepository) *ReportService {
	return &ReportService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

// DailySummary aggregates all completed sales for the calendar day
// containing the given time, in the server's local zone.
func (s *ReportService) DailySummary(day time.Time) (*DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	sales, err := s.saleRepo.ListBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for daily summary: %w", err)
	}

	summary := &DailySummary{Date: start.Format("2006-01-02"), SaleCount: len(sales)}
	for _, sale := range sales {
		summary.Revenue += sale.Total
		summary.TaxCollected += sale.TaxAmount
		summary.Discounts += sale.DiscountAmount
		switch sale.PaymentMethod {
		case "cash":
			summary.CashSales += sale.Total
		case "card":
			summary.CardSales += sale.Total
		}
	}
	summary.Revenue = round2(summary.Revenue)
	summary.TaxCollected = round2(summary.TaxCollected)
	summary.Discounts = round2(summary.Discounts)
	summary.CashSales = round2(summary.CashSales)
	summary.CardSales = round2(summary.CardSales)
	return summary, nil
}

// TopSellers returns the best-selling active products by units sold.
func (s *ReportService) TopSellers(limit int) ([]TopSeller, error) {
	if limit <= 0 {
		limit = 10
	}
	products, err := s.productRepo.GetAll(repositories.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load products for top sellers: %w", err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].TimesSold > products[j].TimesSold
	})
	if limit < len(products) {
		products = products[:limit]
	}

	sellers := make([]TopSeller, 0, len(products))
	for _, p := range products {
		sellers = append(sellers, TopSeller{ProductID: p.ID, Name: p.Name, TimesSold: p.TimesSold})
	}
	return sellers, nil
}
