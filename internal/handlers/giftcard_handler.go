package handlers

import (
	"log"

	"bottleshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// GiftCardHandler handles HTTP requests for gift cards.
type GiftCardHandler struct {
	service  *services.GiftCardService
	validate *validator.Validate
}

// NewGiftCardHandler creates a new GiftCardHandler.
func NewGiftCardHandler(service *services.GiftCardService) *GiftCardHandler {
	return &GiftCardHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the gift card routes with the Fiber app.
func (h *GiftCardHandler) RegisterRoutes(router fiber.Router) {
	giftCardRoutes := router.Group("/gift-cards")
	giftCardRoutes.Get("/:number", h.HandleLookupGiftCard)
	giftCardRoutes.Get("/:number/transactions", h.HandleGetTransactions)
	giftCardRoutes.Post("/", h.HandleCreateGiftCard)
}

// HandleCreateGiftCard issues and activates a new gift card.
func (h *GiftCardHandler) HandleCreateGiftCard(c *fiber.Ctx) error {
	var req services.CreateGiftCardRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing gift card request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	card, err := h.service.CreateGiftCard(req)
	if err != nil {
		log.Printf("Error creating gift card: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create gift card",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

// HandleLookupGiftCard retrieves a card by number, verifying the PIN when
// the pin query parameter is supplied.
func (h *GiftCardHandler) HandleLookupGiftCard(c *fiber.Ctx) error {
	cardNumber := c.Params("number")
	card, err := h.service.LookupGiftCard(cardNumber, c.Query("pin"))
	if err != nil {
		log.Printf("Error looking up gift card %s: %v", cardNumber, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Gift card not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Gift card unavailable",
			"error":   err.Error(),
		})
	}
	return c.JSON(card)
}

// HandleGetTransactions returns the ledger for a card.
func (h *GiftCardHandler) HandleGetTransactions(c *fiber.Ctx) error {
	cardNumber := c.Params("number")
	transactions, err := h.service.GetTransactions(cardNumber)
	if err != nil {
		log.Printf("Error getting transactions for gift card %s: %v", cardNumber, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Gift card not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve gift card transactions",
			"error":   err.Error(),
		})
	}
	return c.JSON(transactions)
}
