package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocenteModel struct {
	// PK
	DocenteID uuid.UUID `json:"docente_id" gorm:"column:docente_id;type:uuid;primaryKey"`

	DocenteNome    string `json:"docente_nome"    gorm:"column:docente_nome;type:varchar(80);not null"`
	DocenteCognome string `json:"docente_cognome" gorm:"column:docente_cognome;type:varchar(80);not null"`

	// Ruolo applicativo (constants.Role*)
	DocenteRuolo     string `json:"docente_ruolo"     gorm:"column:docente_ruolo;type:varchar(20);not null;default:'docente'"`
	DocenteAbilitato bool   `json:"docente_abilitato" gorm:"column:docente_abilitato;not null;default:true"`

	DocenteCreatedAt time.Time `json:"docente_created_at" gorm:"column:docente_created_at;not null;autoCreateTime"`
	DocenteUpdatedAt time.Time `json:"docente_updated_at" gorm:"column:docente_updated_at;not null;autoUpdateTime"`
}

func (DocenteModel) TableName() string { return "docenti" }

func (m *DocenteModel) BeforeCreate(tx *gorm.DB) error {
	if m.DocenteID == uuid.Nil {
		m.DocenteID = uuid.New()
	}
	return nil
}
