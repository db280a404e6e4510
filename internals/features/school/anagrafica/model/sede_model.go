package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SedeModel struct {
	// PK
	SedeID uuid.UUID `json:"sede_id" gorm:"column:sede_id;type:uuid;primaryKey"`

	// Identità
	SedeNome  string `json:"sede_nome"  gorm:"column:sede_nome;type:varchar(120);not null"`
	SedeCitta string `json:"sede_citta" gorm:"column:sede_citta;type:varchar(80);not null"`

	SedeCreatedAt time.Time `json:"sede_created_at" gorm:"column:sede_created_at;not null;autoCreateTime"`
	SedeUpdatedAt time.Time `json:"sede_updated_at" gorm:"column:sede_updated_at;not null;autoUpdateTime"`
}

func (SedeModel) TableName() string { return "sedi" }

func (m *SedeModel) BeforeCreate(tx *gorm.DB) error {
	if m.SedeID == uuid.Nil {
		m.SedeID = uuid.New()
	}
	return nil
}
