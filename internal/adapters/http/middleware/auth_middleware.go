package middleware

import (
	"strings"

	"scouthub/internal/config"
	"scouthub/internal/core/domain"
	"scouthub/internal/core/services"
	"scouthub/internal/pkg/jwt"
	"scouthub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("accountID", claims.AccountID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals("unitCode", claims.UnitCode)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// ActorFromContext rebuilds the acting identity the auth middleware
// stored in locals.
func ActorFromContext(c *fiber.Ctx) (services.Actor, bool) {
	accountID, ok := c.Locals("accountID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Locals("role").(domain.Role)
	if !ok {
		return services.Actor{}, false
	}
	unitCode, _ := c.Locals("unitCode").(string)

	return services.Actor{
		AccountID: accountID,
		Role:      role,
		UnitCode:  unitCode,
	}, true
}
