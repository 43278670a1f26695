package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependencia externa cuyo estado reporta /health (pool de BD, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health verifica cada dependencia; responde 503 si alguna falla.
// Nunca expone detalles de conexión.
func Health(deps map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		body := fiber.Map{}
		status := fiber.StatusOK
		for name, p := range deps {
			if err := p.Ping(ctx); err != nil {
				body[name] = "error"
				status = fiber.StatusServiceUnavailable
				continue
			}
			body[name] = "connected"
		}
		body["ok"] = status == fiber.StatusOK
		return c.Status(status).JSON(body)
	}
}
