package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// JobTokenMiddleware guards the internal job-trigger routes with a shared
// token. The scheduler that pings these routes carries it in X-Job-Token.
func JobTokenMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "Job trigger disabled"})
		}

		provided := ctx.Get("X-Job-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		return ctx.Next()
	}
}
