package handlers

import (
	"log"

	"bottleshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ShiftHandler handles HTTP requests for cashier shifts and the cash
// drawer.
type ShiftHandler struct {
	service  *services.ShiftService
	validate *validator.Validate
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(service *services.ShiftService) *ShiftHandler {
	return &ShiftHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the shift routes with the Fiber app.
func (h *ShiftHandler) RegisterRoutes(router fiber.Router) {
	shiftRoutes := router.Group("/shifts")
	shiftRoutes.Get("/", h.HandleGetShifts)
	shiftRoutes.Get("/current", h.HandleGetCurrentShift)
	shiftRoutes.Post("/start", h.HandleStartShift)
	shiftRoutes.Post("/end", h.HandleEndShift)
}

type startShiftRequest struct {
	CashierName string  `json:"cashier_name" validate:"required,max=200"`
	OpeningCash float64 `json:"opening_cash" validate:"gte=0"`
}

type endShiftRequest struct {
	ClosingCash float64 `json:"closing_cash" validate:"gte=0"`
	Notes       string  `json:"notes" validate:"omitempty,max=1000"`
}

// HandleGetShifts returns the shift history.
func (h *ShiftHandler) HandleGetShifts(c *fiber.Ctx) error {
	shifts, err := h.service.GetAllShifts()
	if err != nil {
		log.Printf("Error getting shifts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve shifts",
			"error":   err.Error(),
		})
	}
	return c.JSON(shifts)
}

// HandleGetCurrentShift returns the active shift with its live drawer
// stats, or 404 if no shift is open.
func (h *ShiftHandler) HandleGetCurrentShift(c *fiber.Ctx) error {
	shift, stats, err := h.service.CurrentShift()
	if err != nil {
		log.Printf("Error getting current shift: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve current shift",
			"error":   err.Error(),
		})
	}
	if shift == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No active shift",
		})
	}
	return c.JSON(fiber.Map{
		"shift": shift,
		"stats": stats,
	})
}

// HandleStartShift opens a new shift.
func (h *ShiftHandler) HandleStartShift(c *fiber.Ctx) error {
	var req startShiftRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing shift request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	shift, err := h.service.StartShift(req.CashierName, req.OpeningCash)
	if err != nil {
		log.Printf("Error starting shift for %s: %v", req.CashierName, err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Could not start shift",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(shift)
}

// HandleEndShift closes the active shift and reconciles the drawer.
func (h *ShiftHandler) HandleEndShift(c *fiber.Ctx) error {
	var req endShiftRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing shift request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	shift, err := h.service.EndShift(req.ClosingCash, req.Notes)
	if err != nil {
		log.Printf("Error ending shift: %v", err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Could not end shift",
			"error":   err.Error(),
		})
	}
	return c.JSON(shift)
}
