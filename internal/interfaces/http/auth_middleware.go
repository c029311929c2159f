package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facilgest/estoque-api/internal/application/dto"
	"github.com/facilgest/estoque-api/pkg/jwt"
)

// Locals keys para CustomerID e ActorID no Fiber.
const (
	LocalActorID    = "actor_id"
	LocalCustomerID = "customer_id"
)

// AuthMiddleware valida o Bearer Token JWT e extrai CustomerID e ActorID para
// c.Locals. O actor é um identificador opaco, repassado ao ledger só para
// auditoria; gestão de usuários/sessões fica no serviço de identidade externo.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		actorID, customerID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		if customerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_CUSTOMER", Message: "customer_id ausente no token"})
		}
		c.Locals(LocalActorID, actorID)
		c.Locals(LocalCustomerID, customerID)
		return c.Next()
	}
}

// GetActorID devolve o ActorID do contexto (depois do middleware de auth).
func GetActorID(c *fiber.Ctx) string {
	v := c.Locals(LocalActorID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCustomerID devolve o CustomerID do contexto (depois do middleware de auth).
func GetCustomerID(c *fiber.Ctx) string {
	v := c.Locals(LocalCustomerID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
