package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "scuoladigitale_backend/internals/helpers"
)

// Intercetta i panic dei handler e li trasforma in 500 JSON.
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("💥 panic recuperato: %v", r)
				err = helper.Error(c, fiber.StatusInternalServerError, "Errore interno del server")
			}
		}()
		return c.Next()
	}
}
