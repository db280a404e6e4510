package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di materia.
const (
	MateriaNormale    = "N" // curricolare
	MateriaCondotta   = "U"
	MateriaSostegno   = "S"
	MateriaReligione  = "R"
)

type MateriaModel struct {
	// PK
	MateriaID uuid.UUID `json:"materia_id" gorm:"column:materia_id;type:uuid;primaryKey"`

	MateriaNome      string `json:"materia_nome"       gorm:"column:materia_nome;type:varchar(120);not null"`
	MateriaNomeBreve string `json:"materia_nome_breve" gorm:"column:materia_nome_breve;type:varchar(40);not null"`

	MateriaTipo        string `json:"materia_tipo"        gorm:"column:materia_tipo;type:varchar(1);not null;default:'N'"`
	MateriaOrdinamento int    `json:"materia_ordinamento" gorm:"column:materia_ordinamento;not null;default:0"`

	MateriaCreatedAt time.Time `json:"materia_created_at" gorm:"column:materia_created_at;not null;autoCreateTime"`
	MateriaUpdatedAt time.Time `json:"materia_updated_at" gorm:"column:materia_updated_at;not null;autoUpdateTime"`
}

func (MateriaModel) TableName() string { return "materie" }

func (m *MateriaModel) BeforeCreate(tx *gorm.DB) error {
	if m.MateriaID == uuid.Nil {
		m.MateriaID = uuid.New()
	}
	return nil
}
