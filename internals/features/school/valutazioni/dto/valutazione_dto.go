package dto

import (
	"time"

	"github.com/google/uuid"

	"scuoladigitale_backend/internals/features/school/valutazioni/model"
)

type ValutazioneRequest struct {
	ClasseID  uuid.UUID `json:"classe_id"  validate:"required"`
	MateriaID uuid.UUID `json:"materia_id" validate:"required"`
	AlunnoID  uuid.UUID `json:"alunno_id"  validate:"required"`
	Data      string    `json:"data"       validate:"required,datetime=2006-01-02"`
	Tipo      string    `json:"tipo"       validate:"required,oneof=S O P"`
	Voto      *float64  `json:"voto"       validate:"omitempty,min=1,max=10"`
	Giudizio  *string   `json:"giudizio"   validate:"omitempty,max=2000"`
	Argomento *string   `json:"argomento"  validate:"omitempty,max=2000"`
	Visibile  bool      `json:"visibile"`
	Media     bool      `json:"media"`
}

type ModificaValutazioneRequest struct {
	Voto      *float64 `json:"voto"      validate:"omitempty,min=1,max=10"`
	Giudizio  *string  `json:"giudizio"  validate:"omitempty,max=2000"`
	Argomento *string  `json:"argomento" validate:"omitempty,max=2000"`
	Visibile  *bool    `json:"visibile"`
	Media     *bool    `json:"media"`
}

type ValutazioneResponse struct {
	ValutazioneID uuid.UUID `json:"valutazione_id"`
	LezioneID     uuid.UUID `json:"lezione_id"`
	AlunnoID      uuid.UUID `json:"alunno_id"`
	MateriaID     uuid.UUID `json:"materia_id"`
	Tipo          string    `json:"tipo"`
	Voto          *float64  `json:"voto,omitempty"`
	Giudizio      *string   `json:"giudizio,omitempty"`
	Visibile      bool      `json:"visibile"`
}

func FromValutazioneModel(m model.ValutazioneModel) ValutazioneResponse {
	return ValutazioneResponse{
		ValutazioneID: m.ValutazioneID,
		LezioneID:     m.ValutazioneLezioneID,
		AlunnoID:      m.ValutazioneAlunnoID,
		MateriaID:     m.ValutazioneMateriaID,
		Tipo:          m.ValutazioneTipo,
		Voto:          m.ValutazioneVoto,
		Giudizio:      m.ValutazioneGiudizio,
		Visibile:      m.ValutazioneVisibile,
	}
}

func ParseData(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
