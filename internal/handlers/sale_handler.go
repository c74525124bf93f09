package handlers

import (
	"log"
	"strings"

	"bottleshop/internal/pricing"
	"bottleshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SaleHandler handles HTTP requests for checkout and sale history.
type SaleHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(service *services.CheckoutService) *SaleHandler {
	return &SaleHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the sale routes with the Fiber app.
func (h *SaleHandler) RegisterRoutes(router fiber.Router) {
	saleRoutes := router.Group("/sales")
	saleRoutes.Get("/", h.HandleGetSales)
	saleRoutes.Get("/:id", h.HandleGetSaleByID)
	saleRoutes.Post("/", h.HandleCreateSale)
	saleRoutes.Post("/:id/refund", h.HandleRefundSale)

	// Cart admission pre-check used by the register UI before adding a
	// product to the cart.
	router.Get("/cart/admission", h.HandleCheckAdmission)
}

// HandleGetSales retrieves recent sales.
func (h *SaleHandler) HandleGetSales(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	sales, err := h.service.GetAllSales(limit, offset)
	if err != nil {
		log.Printf("Error getting sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve sales",
			"error":   err.Error(),
		})
	}
	return c.JSON(sales)
}

// HandleGetSaleByID retrieves a single sale by its ID.
func (h *SaleHandler) HandleGetSaleByID(c *fiber.Ctx) error {
	saleID := c.Params("id")
	sale, err := h.service.GetSaleByID(saleID)
	if err != nil {
		log.Printf("Error getting sale by ID %s: %v", saleID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Sale not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve sale",
			"error":   err.Error(),
		})
	}
	return c.JSON(sale)
}

// HandleCreateSale completes a checkout.
func (h *SaleHandler) HandleCreateSale(c *fiber.Ctx) error {
	var req services.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sale request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	sale, err := h.service.CreateSale(req)
	if err != nil {
		log.Printf("Error creating sale: %v", err)
		switch {
		case notFound(err),
			strings.Contains(err.Error(), "insufficient stock"),
			strings.Contains(err.Error(), "age verification required"),
			strings.Contains(err.Error(), "gift card"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Sale rejected",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create sale",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// HandleRefundSale refunds a completed sale.
func (h *SaleHandler) HandleRefundSale(c *fiber.Ctx) error {
	saleID := c.Params("id")
	sale, err := h.service.RefundSale(saleID)
	if err != nil {
		log.Printf("Error refunding sale %s: %v", saleID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Sale not found",
			})
		}
		if strings.Contains(err.Error(), "already refunded") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Sale already refunded",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not refund sale",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Sale refunded",
		"sale":    sale,
	})
}

// HandleCheckAdmission reports whether a product may be added to the cart
// given the session's age verification state.
func (h *SaleHandler) HandleCheckAdmission(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'product_id' is required",
		})
	}
	ageVerified := c.QueryBool("age_verified", false)

	decision, err := h.service.CheckAdmission(productID, ageVerified)
	if err != nil {
		log.Printf("Error checking admission for product %s: %v", productID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not check admission",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"product_id": productID,
		"decision":   decision.String(),
		"allowed":    decision == pricing.Allowed,
	})
}
