package handlers

import (
	"log"

	"bottleshop/internal/models"
	"bottleshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles HTTP requests for customers and the loyalty
// program.
type CustomerHandler struct {
	service  *services.LoyaltyService
	validate *validator.Validate
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *services.LoyaltyService) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the customer routes with the Fiber app.
func (h *CustomerHandler) RegisterRoutes(router fiber.Router) {
	customerRoutes := router.Group("/customers")
	customerRoutes.Get("/", h.HandleGetCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomerByID)
	customerRoutes.Get("/:id/loyalty", h.HandleGetLoyaltyStatus)
	customerRoutes.Post("/", h.HandleCreateCustomer)
	customerRoutes.Post("/:id/loyalty/redeem", h.HandleRedeemPoints)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
	customerRoutes.Delete("/:id", h.HandleDeleteCustomer)
}

// HandleGetCustomers lists customers, or looks one up by phone when the
// phone query parameter is set.
func (h *CustomerHandler) HandleGetCustomers(c *fiber.Ctx) error {
	if phone := c.Query("phone"); phone != "" {
		customer, err := h.service.GetCustomerByPhone(phone)
		if err != nil {
			log.Printf("Error getting customer by phone %s: %v", phone, err)
			if notFound(err) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"message": "Customer not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve customer",
				"error":   err.Error(),
			})
		}
		return c.JSON(customer)
	}

	customers, err := h.service.GetAllCustomers()
	if err != nil {
		log.Printf("Error getting customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve customers",
			"error":   err.Error(),
		})
	}
	return c.JSON(customers)
}

// HandleGetCustomerByID retrieves a single customer by their ID.
func (h *CustomerHandler) HandleGetCustomerByID(c *fiber.Ctx) error {
	customerID := c.Params("id")
	customer, err := h.service.GetCustomerByID(customerID)
	if err != nil {
		log.Printf("Error getting customer by ID %s: %v", customerID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Customer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve customer",
			"error":   err.Error(),
		})
	}
	return c.JSON(customer)
}

// HandleGetLoyaltyStatus returns the customer's points, tier, and
// redeemable value.
func (h *CustomerHandler) HandleGetLoyaltyStatus(c *fiber.Ctx) error {
	customerID := c.Params("id")
	status, err := h.service.GetLoyaltyStatus(customerID)
	if err != nil {
		log.Printf("Error getting loyalty status for customer %s: %v", customerID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Customer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve loyalty status",
			"error":   err.Error(),
		})
	}
	return c.JSON(status)
}

// HandleCreateCustomer creates a new customer.
func (h *CustomerHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		log.Printf("Error parsing customer request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(customer); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.CreateCustomer(&customer); err != nil {
		log.Printf("Error creating customer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create customer",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

type redeemPointsRequest struct {
	Points int `json:"points" validate:"required,gt=0"`
}

// HandleRedeemPoints converts loyalty points into store credit.
func (h *CustomerHandler) HandleRedeemPoints(c *fiber.Ctx) error {
	customerID := c.Params("id")

	var req redeemPointsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing redeem request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	credit, err := h.service.RedeemPoints(customerID, req.Points)
	if err != nil {
		log.Printf("Error redeeming %d points for customer %s: %v", req.Points, customerID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Customer not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Redemption rejected",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"customer_id":     customerID,
		"points_redeemed": req.Points,
		"credit_value":    credit,
	})
}

// HandleUpdateCustomer updates an existing customer.
func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		log.Printf("Error parsing customer request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	customer.ID = c.Params("id")

	if err := h.validate.Struct(customer); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.service.UpdateCustomer(&customer); err != nil {
		log.Printf("Error updating customer %s: %v", customer.ID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Customer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update customer",
			"error":   err.Error(),
		})
	}
	return c.JSON(customer)
}

// HandleDeleteCustomer deletes a customer by their ID.
func (h *CustomerHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	customerID := c.Params("id")
	if err := h.service.DeleteCustomer(customerID); err != nil {
		log.Printf("Error deleting customer %s: %v", customerID, err)
		if notFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Customer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete customer",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Customer deleted",
	})
}
