package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di avviso.
const (
	AvvisoIndividuale = "D" // generato da un'annotazione visibile
	AvvisoGenerico    = "G"
)

type AvvisoModel struct {
	AvvisoID uuid.UUID `json:"avviso_id" gorm:"column:avviso_id;type:uuid;primaryKey"`

	AvvisoTipo      string    `json:"avviso_tipo"       gorm:"column:avviso_tipo;type:varchar(1);not null;default:'D'"`
	AvvisoDocenteID uuid.UUID `json:"avviso_docente_id" gorm:"column:avviso_docente_id;type:uuid;not null"`
	AvvisoData      time.Time `json:"avviso_data"       gorm:"column:avviso_data;type:date;not null"`
	AvvisoTesto     string    `json:"avviso_testo"      gorm:"column:avviso_testo;type:text;not null"`

	AvvisoCreatedAt time.Time `json:"avviso_created_at" gorm:"column:avviso_created_at;not null;autoCreateTime"`
	AvvisoUpdatedAt time.Time `json:"avviso_updated_at" gorm:"column:avviso_updated_at;not null;autoUpdateTime"`
}

func (AvvisoModel) TableName() string { return "avvisi" }

func (m *AvvisoModel) BeforeCreate(tx *gorm.DB) error {
	if m.AvvisoID == uuid.Nil {
		m.AvvisoID = uuid.New()
	}
	return nil
}
