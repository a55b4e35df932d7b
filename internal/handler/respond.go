package handler

import (
	"errors"
	"log"

	"go-stock-ledger/internal/service"
	"go-stock-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ok wraps successful payloads in the {success, data} envelope
func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// fail maps service errors to the {success:false, error} envelope: per-field
// maps for validation, 404 for missing entities, and a generic message for
// store failures so internals never leak.
func fail(c *fiber.Ctx, err error) error {
	var fields validator.FieldErrors
	switch {
	case errors.As(err, &fields):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": fields})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		return c.Status(409).JSON(fiber.Map{"success": false, "error": err.Error()})
	default:
		log.Println("store error:", err)
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Internal Server Error"})
	}
}
