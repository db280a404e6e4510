package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Orario scolastico di una sede, valido in [inizio, fine].
type OrarioModel struct {
	OrarioID uuid.UUID `json:"orario_id" gorm:"column:orario_id;type:uuid;primaryKey"`

	OrarioNome   string    `json:"orario_nome"    gorm:"column:orario_nome;type:varchar(80);not null"`
	OrarioSedeID uuid.UUID `json:"orario_sede_id" gorm:"column:orario_sede_id;type:uuid;not null;index"`

	OrarioInizio time.Time `json:"orario_inizio" gorm:"column:orario_inizio;type:date;not null"`
	OrarioFine   time.Time `json:"orario_fine"   gorm:"column:orario_fine;type:date;not null"`

	OrarioCreatedAt time.Time `json:"orario_created_at" gorm:"column:orario_created_at;not null;autoCreateTime"`
}

func (OrarioModel) TableName() string { return "orari" }

func (m *OrarioModel) BeforeCreate(tx *gorm.DB) error {
	if m.OrarioID == uuid.Nil {
		m.OrarioID = uuid.New()
	}
	return nil
}
