package middleware

import (
	"strings"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const authUserKey = "auth_user"

// RequireAuth validates the JWT and resolves it to an authenticated user,
// provisioning the user row on first sign-in (tokens may come from an
// external identity provider sharing the signing secret).
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
		}

		user, err := userRepo.FindOrCreateByEmail(claims.Email, claims.Name)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Could not resolve user"})
		}

		c.Locals(authUserKey, model.AuthUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		})

		return c.Next()
	}
}

// AuthUser returns the authenticated-user context set by RequireAuth
func AuthUser(c *fiber.Ctx) model.AuthUser {
	user, _ := c.Locals(authUserKey).(model.AuthUser)
	return user
}
