package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppelloRequest struct {
	ClasseID uuid.UUID   `json:"classe_id" validate:"required"`
	Data     string      `json:"data"      validate:"required,datetime=2006-01-02"`
	Assenti  []uuid.UUID `json:"assenti"   validate:"omitempty,dive,required"`
}

type EntrataRequest struct {
	AlunnoID uuid.UUID `json:"alunno_id" validate:"required"`
	ClasseID uuid.UUID `json:"classe_id" validate:"required"`
	SedeID   uuid.UUID `json:"sede_id"   validate:"required"`
	Data     string    `json:"data"      validate:"required,datetime=2006-01-02"`
	Ora      string    `json:"ora"       validate:"required,len=5"`
	Note     *string   `json:"note"      validate:"omitempty,max=500"`
}

type UscitaRequest struct {
	AlunnoID uuid.UUID `json:"alunno_id" validate:"required"`
	ClasseID uuid.UUID `json:"classe_id" validate:"required"`
	Data     string    `json:"data"      validate:"required,datetime=2006-01-02"`
	Ora      string    `json:"ora"       validate:"required,len=5"`
	Note     *string   `json:"note"      validate:"omitempty,max=500"`
}

type GiustificaRequest struct {
	AssenzeID []uuid.UUID `json:"assenze_id" validate:"omitempty,dive,required"`
	EntrateID []uuid.UUID `json:"entrate_id" validate:"omitempty,dive,required"`
}

func ParseData(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
