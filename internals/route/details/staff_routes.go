package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	anagController "scuoladigitale_backend/internals/features/school/anagrafica/controller"
)

// StaffRoutes monta le rotte riservate allo staff di direzione.
func StaffRoutes(r fiber.Router, db *gorm.DB) {
	anagrafica := anagController.NewAnagraficaController(db)

	// movimenti alunni e assegnazione cattedre
	r.Post("/trasferimenti", anagrafica.Trasferisci)
	r.Post("/cattedre", anagrafica.CreaCattedra)
}
