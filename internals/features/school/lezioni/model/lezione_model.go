package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LezioneModel struct {
	// PK
	LezioneID uuid.UUID `json:"lezione_id" gorm:"column:lezione_id;type:uuid;primaryKey"`

	// Slot univoco: una sola lezione per classe/data/ora
	LezioneClasseID uuid.UUID `json:"lezione_classe_id" gorm:"column:lezione_classe_id;type:uuid;not null;uniqueIndex:uq_lezioni_classe_data_ora"`
	LezioneData     time.Time `json:"lezione_data"      gorm:"column:lezione_data;type:date;not null;uniqueIndex:uq_lezioni_classe_data_ora"`
	LezioneOra      int       `json:"lezione_ora"       gorm:"column:lezione_ora;not null;uniqueIndex:uq_lezioni_classe_data_ora"`

	LezioneMateriaID uuid.UUID `json:"lezione_materia_id" gorm:"column:lezione_materia_id;type:uuid;not null;index"`

	LezioneArgomento string `json:"lezione_argomento" gorm:"column:lezione_argomento;type:text;not null;default:''"`
	LezioneAttivita  string `json:"lezione_attivita"  gorm:"column:lezione_attivita;type:text;not null;default:''"`

	LezioneCreatedAt time.Time `json:"lezione_created_at" gorm:"column:lezione_created_at;not null;autoCreateTime"`
	LezioneUpdatedAt time.Time `json:"lezione_updated_at" gorm:"column:lezione_updated_at;not null;autoUpdateTime"`
}

func (LezioneModel) TableName() string { return "lezioni" }

func (m *LezioneModel) BeforeCreate(tx *gorm.DB) error {
	if m.LezioneID == uuid.Nil {
		m.LezioneID = uuid.New()
	}
	return nil
}
