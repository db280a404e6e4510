package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di valutazione.
const (
	ValutazioneScritto = "S"
	ValutazioneOrale   = "O"
	ValutazionePratico = "P"
)

type ValutazioneModel struct {
	// PK
	ValutazioneID uuid.UUID `json:"valutazione_id" gorm:"column:valutazione_id;type:uuid;primaryKey"`

	// La valutazione è ancorata alla lezione in cui è stata data
	ValutazioneLezioneID uuid.UUID `json:"valutazione_lezione_id" gorm:"column:valutazione_lezione_id;type:uuid;not null;index"`
	ValutazioneDocenteID uuid.UUID `json:"valutazione_docente_id" gorm:"column:valutazione_docente_id;type:uuid;not null;index"`
	ValutazioneAlunnoID  uuid.UUID `json:"valutazione_alunno_id"  gorm:"column:valutazione_alunno_id;type:uuid;not null;index"`
	ValutazioneMateriaID uuid.UUID `json:"valutazione_materia_id" gorm:"column:valutazione_materia_id;type:uuid;not null"`

	ValutazioneTipo string `json:"valutazione_tipo" gorm:"column:valutazione_tipo;type:varchar(1);not null;default:'O'"`

	// Voto assente (solo giudizio) oppure in [1,10]
	ValutazioneVoto      *float64 `json:"valutazione_voto,omitempty"      gorm:"column:valutazione_voto;type:numeric(4,2)"`
	ValutazioneGiudizio  *string  `json:"valutazione_giudizio,omitempty"  gorm:"column:valutazione_giudizio;type:text"`
	ValutazioneArgomento *string  `json:"valutazione_argomento,omitempty" gorm:"column:valutazione_argomento;type:text"`

	ValutazioneVisibile bool `json:"valutazione_visibile" gorm:"column:valutazione_visibile;not null;default:true"`
	ValutazioneMedia    bool `json:"valutazione_media"    gorm:"column:valutazione_media;not null;default:true"`

	ValutazioneCreatedAt time.Time `json:"valutazione_created_at" gorm:"column:valutazione_created_at;not null;autoCreateTime"`
	ValutazioneUpdatedAt time.Time `json:"valutazione_updated_at" gorm:"column:valutazione_updated_at;not null;autoUpdateTime"`
}

func (ValutazioneModel) TableName() string { return "valutazioni" }

func (m *ValutazioneModel) BeforeCreate(tx *gorm.DB) error {
	if m.ValutazioneID == uuid.Nil {
		m.ValutazioneID = uuid.New()
	}
	return nil
}
