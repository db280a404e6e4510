package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Annotazione sul registro di classe. Se visibile alle famiglie è
// agganciata 1:1 a un Avviso.
type AnnotazioneModel struct {
	AnnotazioneID uuid.UUID `json:"annotazione_id" gorm:"column:annotazione_id;type:uuid;primaryKey"`

	AnnotazioneClasseID  uuid.UUID `json:"annotazione_classe_id"  gorm:"column:annotazione_classe_id;type:uuid;not null;index"`
	AnnotazioneDocenteID uuid.UUID `json:"annotazione_docente_id" gorm:"column:annotazione_docente_id;type:uuid;not null"`

	AnnotazioneData  time.Time `json:"annotazione_data"  gorm:"column:annotazione_data;type:date;not null"`
	AnnotazioneTesto string    `json:"annotazione_testo" gorm:"column:annotazione_testo;type:text;not null"`

	AnnotazioneVisibile bool       `json:"annotazione_visibile"           gorm:"column:annotazione_visibile;not null;default:false"`
	AnnotazioneAvvisoID *uuid.UUID `json:"annotazione_avviso_id,omitempty" gorm:"column:annotazione_avviso_id;type:uuid"`

	AnnotazioneCreatedAt time.Time `json:"annotazione_created_at" gorm:"column:annotazione_created_at;not null;autoCreateTime"`
	AnnotazioneUpdatedAt time.Time `json:"annotazione_updated_at" gorm:"column:annotazione_updated_at;not null;autoUpdateTime"`
}

func (AnnotazioneModel) TableName() string { return "annotazioni" }

func (m *AnnotazioneModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnotazioneID == uuid.Nil {
		m.AnnotazioneID = uuid.New()
	}
	return nil
}
