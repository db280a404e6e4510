package dto

import (
	"time"

	"github.com/google/uuid"

	"scuoladigitale_backend/internals/features/school/lezioni/model"
	service "scuoladigitale_backend/internals/features/school/lezioni/service"
)

/* ===== REQUEST ===== */

type FirmaLezioneRequest struct {
	ClasseID   uuid.UUID  `json:"classe_id"   validate:"required"`
	Data       string     `json:"data"        validate:"required,datetime=2006-01-02"`
	Ora        int        `json:"ora"         validate:"required,min=1,max=12"`
	OraFine    int        `json:"ora_fine"    validate:"omitempty,min=1,max=12"`
	CattedraID uuid.UUID  `json:"cattedra_id" validate:"required"`
	Argomento  string     `json:"argomento"   validate:"max=4000"`
	Attivita   string     `json:"attivita"    validate:"max=4000"`
	AlunnoID   *uuid.UUID `json:"alunno_id"   validate:"omitempty"`
}

type ModificaLezioneRequest struct {
	Argomento string `json:"argomento" validate:"max=4000"`
	Attivita  string `json:"attivita"  validate:"max=4000"`
}

/* ===== RESPONSE ===== */

type LezioneResponse struct {
	LezioneID uuid.UUID `json:"lezione_id"`
	ClasseID  uuid.UUID `json:"classe_id"`
	Data      string    `json:"data"`
	Ora       int       `json:"ora"`
	MateriaID uuid.UUID `json:"materia_id"`
	Argomento string    `json:"argomento"`
	Attivita  string    `json:"attivita"`
}

func FromLezioneModel(m model.LezioneModel) LezioneResponse {
	return LezioneResponse{
		LezioneID: m.LezioneID,
		ClasseID:  m.LezioneClasseID,
		Data:      m.LezioneData.Format("2006-01-02"),
		Ora:       m.LezioneOra,
		MateriaID: m.LezioneMateriaID,
		Argomento: m.LezioneArgomento,
		Attivita:  m.LezioneAttivita,
	}
}

func FromLezioneModels(ms []model.LezioneModel) []LezioneResponse {
	out := make([]LezioneResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromLezioneModel(m))
	}
	return out
}

type RimozioneResponse struct {
	FirmaRimossa    bool `json:"firma_rimossa"`
	LezioneRimossa  bool `json:"lezione_rimossa"`
	LezioneSostegno bool `json:"lezione_sostegno"`
	VotiRiassegnati int  `json:"voti_riassegnati"`
}

func FromRisultatoRimozione(r *service.RisultatoRimozione) RimozioneResponse {
	return RimozioneResponse{
		FirmaRimossa:    r.FirmaRimossa,
		LezioneRimossa:  r.LezioneRimossa,
		LezioneSostegno: r.LezioneSostegno,
		VotiRiassegnati: r.VotiRiassegnati,
	}
}

func (r *FirmaLezioneRequest) ParseData() (time.Time, error) {
	return time.Parse("2006-01-02", r.Data)
}
