package dto

import (
	"time"

	"github.com/google/uuid"
)

type TrasferimentoRequest struct {
	AlunnoID uuid.UUID  `json:"alunno_id" validate:"required"`
	Data     string     `json:"data"      validate:"required,datetime=2006-01-02"`
	ClasseID *uuid.UUID `json:"classe_id"` // null = uscita dalla scuola
	Tipo     string     `json:"tipo"      validate:"required,oneof=A T S O"`
}

type CattedraRequest struct {
	DocenteID uuid.UUID  `json:"docente_id" validate:"required"`
	ClasseID  uuid.UUID  `json:"classe_id"  validate:"required"`
	MateriaID uuid.UUID  `json:"materia_id" validate:"required"`
	AlunnoID  *uuid.UUID `json:"alunno_id"`
	Tipo      string     `json:"tipo"      validate:"omitempty,oneof=N I P"`
	Supplenza bool       `json:"supplenza"`
}

func ParseData(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
