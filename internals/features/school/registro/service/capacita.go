package service

import (
	"github.com/google/uuid"

	"scuoladigitale_backend/internals/constants"
)

// Capacita è l'insieme di capacità dell'utente autenticato, calcolato
// una volta per richiesta dai claim del token. Il motore non legge
// alcuno stato di sessione: decide solo su questi valori.
type Capacita struct {
	DocenteID uuid.UUID
	Ruoli     []string
}

func NuovaCapacita(docenteID uuid.UUID, ruoli []string) Capacita {
	return Capacita{DocenteID: docenteID, Ruoli: ruoli}
}

func (c Capacita) ha(ruolo string) bool {
	for _, r := range c.Ruoli {
		if r == ruolo {
			return true
		}
	}
	return false
}

// Staff comprende preside e amministratore.
func (c Capacita) Staff() bool {
	return c.ha(constants.RoleStaff) || c.Preside()
}

func (c Capacita) Preside() bool {
	return c.ha(constants.RolePreside) || c.ha(constants.RoleAmministratore)
}
