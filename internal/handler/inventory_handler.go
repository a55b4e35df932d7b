package handler

import (
	"go-stock-ledger/internal/middleware"
	"go-stock-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	inventory service.InventoryService
	metrics   service.MetricsService
}

func NewInventoryHandler(inventory service.InventoryService, metrics service.MetricsService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, metrics: metrics}
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.metrics.ListProductsWithStock(middleware.AuthUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, products)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	product, err := h.inventory.AddProduct(middleware.AuthUser(c), input)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 201, product)
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid product ID"})
	}

	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	product, err := h.inventory.EditProduct(middleware.AuthUser(c), id, input)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, product)
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid product ID"})
	}

	product, err := h.inventory.DeleteProduct(middleware.AuthUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, product)
}

// GetProductStock exposes the per-product derived metrics used by the sale
// form to cap the quantity field.
func (h *InventoryHandler) GetProductStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid product ID"})
	}

	user := middleware.AuthUser(c)
	remaining, err := h.metrics.RemainingQuantity(user, id)
	if err != nil {
		return fail(c, err)
	}
	percentage, err := h.metrics.SalePercentage(user, id)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, 200, fiber.Map{
		"remaining_quantity": remaining,
		"sale_percentage":    percentage,
		"stock_level":        service.StockLevelFor(percentage),
	})
}

func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.inventory.ListTransactions(middleware.AuthUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, transactions)
}

func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var input service.TransactionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	transaction, err := h.inventory.CreateTransaction(middleware.AuthUser(c), input)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 201, transaction.ToResponse())
}

func (h *InventoryHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid transaction ID"})
	}

	var input service.TransactionUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	transaction, err := h.inventory.UpdateTransaction(middleware.AuthUser(c), id, input)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, transaction.ToResponse())
}

func (h *InventoryHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid transaction ID"})
	}

	if err := h.inventory.DeleteTransaction(middleware.AuthUser(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, 200, fiber.Map{"deleted": id})
}
