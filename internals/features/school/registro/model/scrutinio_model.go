package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Periodi di scrutinio.
const (
	ScrutinioPrimo   = "P"
	ScrutinioSecondo = "S"
	ScrutinioFinale  = "F"
)

// Stati dello scrutinio: N = non aperto, A = aperto, C = chiuso.
const (
	ScrutinioNonAperto = "N"
	ScrutinioAperto    = "A"
	ScrutinioChiuso    = "C"
)

type ScrutinioModel struct {
	ScrutinioID uuid.UUID `json:"scrutinio_id" gorm:"column:scrutinio_id;type:uuid;primaryKey"`

	ScrutinioClasseID uuid.UUID `json:"scrutinio_classe_id" gorm:"column:scrutinio_classe_id;type:uuid;not null;uniqueIndex:uq_scrutini_classe_periodo"`
	ScrutinioPeriodo  string    `json:"scrutinio_periodo"   gorm:"column:scrutinio_periodo;type:varchar(1);not null;uniqueIndex:uq_scrutini_classe_periodo"`

	ScrutinioStato string     `json:"scrutinio_stato"          gorm:"column:scrutinio_stato;type:varchar(1);not null;default:'N'"`
	ScrutinioData  *time.Time `json:"scrutinio_data,omitempty" gorm:"column:scrutinio_data;type:date"`

	ScrutinioCreatedAt time.Time `json:"scrutinio_created_at" gorm:"column:scrutinio_created_at;not null;autoCreateTime"`
	ScrutinioUpdatedAt time.Time `json:"scrutinio_updated_at" gorm:"column:scrutinio_updated_at;not null;autoUpdateTime"`
}

func (ScrutinioModel) TableName() string { return "scrutini" }

func (m *ScrutinioModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScrutinioID == uuid.Nil {
		m.ScrutinioID = uuid.New()
	}
	return nil
}
