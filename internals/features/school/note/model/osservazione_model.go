package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Osservazione sul registro personale del docente, legata alla cattedra.
type OsservazioneModel struct {
	OsservazioneID uuid.UUID `json:"osservazione_id" gorm:"column:osservazione_id;type:uuid;primaryKey"`

	OsservazioneCattedraID uuid.UUID  `json:"osservazione_cattedra_id"          gorm:"column:osservazione_cattedra_id;type:uuid;not null;index"`
	OsservazioneAlunnoID   *uuid.UUID `json:"osservazione_alunno_id,omitempty"  gorm:"column:osservazione_alunno_id;type:uuid;index"`

	OsservazioneData  time.Time `json:"osservazione_data"  gorm:"column:osservazione_data;type:date;not null"`
	OsservazioneTesto string    `json:"osservazione_testo" gorm:"column:osservazione_testo;type:text;not null"`

	OsservazioneCreatedAt time.Time `json:"osservazione_created_at" gorm:"column:osservazione_created_at;not null;autoCreateTime"`
	OsservazioneUpdatedAt time.Time `json:"osservazione_updated_at" gorm:"column:osservazione_updated_at;not null;autoUpdateTime"`
}

func (OsservazioneModel) TableName() string { return "osservazioni" }

func (m *OsservazioneModel) BeforeCreate(tx *gorm.DB) error {
	if m.OsservazioneID == uuid.Nil {
		m.OsservazioneID = uuid.New()
	}
	return nil
}
