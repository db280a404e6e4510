package dto

import (
	"time"

	"github.com/google/uuid"

	"scuoladigitale_backend/internals/features/school/note/model"
)

/* ===== Annotazioni ===== */

type AnnotazioneRequest struct {
	ClasseID uuid.UUID `json:"classe_id" validate:"required"`
	Data     string    `json:"data"      validate:"required,datetime=2006-01-02"`
	Testo    string    `json:"testo"     validate:"required,max=4000"`
	Visibile bool      `json:"visibile"`
}

type AnnotazioneResponse struct {
	AnnotazioneID uuid.UUID  `json:"annotazione_id"`
	ClasseID      uuid.UUID  `json:"classe_id"`
	Data          string     `json:"data"`
	Testo         string     `json:"testo"`
	Visibile      bool       `json:"visibile"`
	AvvisoID      *uuid.UUID `json:"avviso_id,omitempty"`
}

func FromAnnotazioneModel(m model.AnnotazioneModel) AnnotazioneResponse {
	return AnnotazioneResponse{
		AnnotazioneID: m.AnnotazioneID,
		ClasseID:      m.AnnotazioneClasseID,
		Data:          m.AnnotazioneData.Format("2006-01-02"),
		Testo:         m.AnnotazioneTesto,
		Visibile:      m.AnnotazioneVisibile,
		AvvisoID:      m.AnnotazioneAvvisoID,
	}
}

/* ===== Note ===== */

type NotaRequest struct {
	Tipo     string      `json:"tipo"      validate:"required,oneof=C I"`
	ClasseID uuid.UUID   `json:"classe_id" validate:"required"`
	Data     string      `json:"data"      validate:"required,datetime=2006-01-02"`
	Testo    string      `json:"testo"     validate:"required,max=4000"`
	Alunni   []uuid.UUID `json:"alunni"    validate:"omitempty,dive,required"`
}

type ModificaNotaRequest struct {
	Testo  string      `json:"testo"  validate:"required,max=4000"`
	Alunni []uuid.UUID `json:"alunni" validate:"omitempty,dive,required"`
}

type ProvvedimentoRequest struct {
	Testo string `json:"testo" validate:"required,max=4000"`
}

type NotaResponse struct {
	NotaID        uuid.UUID `json:"nota_id"`
	Tipo          string    `json:"tipo"`
	ClasseID      uuid.UUID `json:"classe_id"`
	Data          string    `json:"data"`
	Testo         string    `json:"testo"`
	Provvedimento string    `json:"provvedimento,omitempty"`
	Annullata     bool      `json:"annullata"`
}

func FromNotaModel(m model.NotaModel) NotaResponse {
	return NotaResponse{
		NotaID:        m.NotaID,
		Tipo:          m.NotaTipo,
		ClasseID:      m.NotaClasseID,
		Data:          m.NotaData.Format("2006-01-02"),
		Testo:         m.NotaTesto,
		Provvedimento: m.NotaProvvedimento,
		Annullata:     m.NotaAnnullata != nil,
	}
}

/* ===== Osservazioni ===== */

type OsservazioneRequest struct {
	CattedraID uuid.UUID  `json:"cattedra_id" validate:"required"`
	AlunnoID   *uuid.UUID `json:"alunno_id"   validate:"omitempty"`
	Data       string     `json:"data"        validate:"required,datetime=2006-01-02"`
	Testo      string     `json:"testo"       validate:"required,max=4000"`
}

type ModificaOsservazioneRequest struct {
	Testo string `json:"testo" validate:"required,max=4000"`
}

func ParseData(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
