package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Converte un errore qualsiasi in risposta JSON uniforme.
// Gli *fiber.Error mantengono il loro status code, il resto diventa 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}
	return Error(c, fiber.StatusInternalServerError, "Errore interno del server")
}
