package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Riga di audit. Scritta best-effort fuori dalla transazione di mutazione.
type LogAzioneModel struct {
	LogAzioneID uuid.UUID `json:"log_azione_id" gorm:"column:log_azione_id;type:uuid;primaryKey"`

	LogAzioneDocenteID *uuid.UUID `json:"log_azione_docente_id,omitempty" gorm:"column:log_azione_docente_id;type:uuid;index"`
	LogAzioneIP        string     `json:"log_azione_ip"                   gorm:"column:log_azione_ip;type:varchar(45);not null;default:''"`

	LogAzioneCategoria string `json:"log_azione_categoria" gorm:"column:log_azione_categoria;type:varchar(40);not null"`
	LogAzioneAzione    string `json:"log_azione_azione"    gorm:"column:log_azione_azione;type:varchar(40);not null"`
	LogAzioneOrigine   string `json:"log_azione_origine"   gorm:"column:log_azione_origine;type:varchar(120);not null;default:''"`

	// Changeset serializzato
	LogAzioneDati datatypes.JSON `json:"log_azione_dati" gorm:"column:log_azione_dati;type:jsonb"`

	LogAzioneCreatedAt time.Time `json:"log_azione_created_at" gorm:"column:log_azione_created_at;not null;autoCreateTime"`
}

func (LogAzioneModel) TableName() string { return "log_azioni" }

func (m *LogAzioneModel) BeforeCreate(tx *gorm.DB) error {
	if m.LogAzioneID == uuid.Nil {
		m.LogAzioneID = uuid.New()
	}
	return nil
}
