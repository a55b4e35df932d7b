package handler

import (
	"go-stock-ledger/internal/middleware"
	"go-stock-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	resp, err := h.service.Register(input)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 201, resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	resp, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.GetUser(middleware.AuthUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, user.ToResponse())
}
