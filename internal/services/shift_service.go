package services

import (
	"fmt"
	"math"
	"time"

	"bottleshop/internal/models"
	"bottleshop/internal/repositories"
)

// DefaultOpeningCash is the standard drawer float at shift start.
const DefaultOpeningCash = 200.0

// ShiftStats are the live register figures for a shift window.
type ShiftStats struct {
	TotalSales     int     `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	CashSales      float64 `json:"cash_sales"`
	CardSales      float64 `json:"card_sales"`
	ExpectedDrawer float64 `json:"expected_drawer"`
}

// ShiftService handles cashier shift and cash drawer bookkeeping.
type ShiftService struct {
	shiftRepo repositories.ShiftRepository
	saleRepo  repositories.SaleRepository
}

// NewShiftService creates a new ShiftService.
func NewShiftService(shiftRepo repositories.ShiftRepository, saleRepo repositories.SaleRepository) *ShiftService {
	return &ShiftService{
		shiftRepo: shiftRepo,
		saleRepo:  saleRepo,
	}
}

// StartShift opens a new shift. Only one shift may be active at a time.
func (s *ShiftService) StartShift(cashierName string, openingCash float64) (*models.Shift, error) {
	if existing, err := s.shiftRepo.GetActive(); err == nil && existing != nil {
		return nil, fmt.Errorf("shift already active for %s", existing.CashierName)
	}
	if openingCash < 0 {
		return nil, fmt.Errorf("opening cash must not be negative")
	}
	if openingCash == 0 {
		openingCash = DefaultOpeningCash
	}

	shift := &models.Shift{
		CashierName: cashierName,
		OpeningCash: openingCash,
		StartTime:   time.Now(),
		IsActive:    true,
	}
	if err := s.shiftRepo.Create(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// CurrentShift returns the active shift with its live stats, or nil when no
// shift is open.
func (s *ShiftService) CurrentShift() (*models.Shift, *ShiftStats, error) {
	shift, err := s.shiftRepo.GetActive()
	if err != nil {
		return nil, nil, nil // no active shift is a normal state, not an error
	}
	stats, err := s.statsSince(shift)
	if err != nil {
		return nil, nil, err
	}
	return shift, stats, nil
}

// EndShift closes the active shift, counting the drawer against the cash
// taken during the shift.
func (s *ShiftService) EndShift(closingCash float64, notes string) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetActive()
	if err != nil {
		return nil, fmt.Errorf("no active shift to end")
	}

	stats, err := s.statsSince(shift)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	shift.ClosingCash = closingCash
	shift.ExpectedCash = stats.ExpectedDrawer
	shift.OverShort = round2(closingCash - stats.ExpectedDrawer)
	shift.EndTime = &now
	shift.IsActive = false
	shift.Notes = notes

	if err := s.shiftRepo.Update(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// GetAllShifts returns the shift history.
func (s *ShiftService) GetAllShifts() ([]models.Shift, error) {
	return s.shiftRepo.GetAll()
}

func (s *ShiftService) statsSince(shift *models.Shift) (*ShiftStats, error) {
	sales, err := s.saleRepo.ListBetween(shift.StartTime, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load sales for shift %s: %w", shift.ID, err)
	}

	stats := &ShiftStats{TotalSales: len(sales)}
	for _, sale := range sales {
		stats.TotalRevenue += sale.Total
		switch sale.PaymentMethod {
		case "cash":
			stats.CashSales += sale.Total
		case "card":
			stats.CardSales += sale.Total
		}
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)
	stats.CashSales = round2(stats.CashSales)
	stats.CardSales = round2(stats.CardSales)
	stats.ExpectedDrawer = round2(shift.OpeningCash + stats.CashSales)
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
