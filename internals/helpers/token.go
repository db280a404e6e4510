package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Chiavi Locals popolate dal middleware JWT.
const (
	LocalsDocenteID = "docente_id"
	LocalsRuoli     = "ruoli"
	LocalsNome      = "nome_completo"
)

// 🔑 ID del docente autenticato (claim "sub")
func GetDocenteIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(LocalsDocenteID).(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Utente non autenticato")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token non valido")
	}
	return id, nil
}

// Ruoli dell'utente autenticato (claim "ruoli")
func GetRuoliFromToken(c *fiber.Ctx) []string {
	switch v := c.Locals(LocalsRuoli).(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return strings.Split(v, ",")
	default:
		return nil
	}
}

func HasRuolo(c *fiber.Ctx, ruolo string) bool {
	for _, r := range GetRuoliFromToken(c) {
		if r == ruolo {
			return true
		}
	}
	return false
}
