package handlers

import (
	"log"
	"time"

	"bottleshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles HTTP requests for back office reports.
type ReportHandler struct {
	service *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers the report routes with the Fiber app.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Get("/daily", h.HandleGetDailySummary)
	reportRoutes.Get("/top-sellers", h.HandleGetTopSellers)
}

// HandleGetDailySummary aggregates completed sales for one calendar day.
// The date query parameter takes YYYY-MM-DD and defaults to today.
func (h *ReportHandler) HandleGetDailySummary(c *fiber.Ctx) error {
	day := time.Now()
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateParam, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid date, expected YYYY-MM-DD",
				"error":   err.Error(),
			})
		}
		day = parsed
	}

	summary, err := h.service.DailySummary(day)
	if err != nil {
		log.Printf("Error building daily summary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not build daily summary",
			"error":   err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleGetTopSellers returns the best-selling products by units sold.
func (h *ReportHandler) HandleGetTopSellers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	sellers, err := h.service.TopSellers(limit)
	if err != nil {
		log.Printf("Error building top sellers report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not build top sellers report",
			"error":   err.Error(),
		})
	}
	return c.JSON(sellers)
}
