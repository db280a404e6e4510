package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di cattedra.
const (
	CattedraNormale       = "N"
	CattedraITP           = "I"
	CattedraPotenziamento = "P"
)

type CattedraModel struct {
	// PK
	CattedraID uuid.UUID `json:"cattedra_id" gorm:"column:cattedra_id;type:uuid;primaryKey"`

	CattedraDocenteID uuid.UUID `json:"cattedra_docente_id" gorm:"column:cattedra_docente_id;type:uuid;not null;index:idx_cattedre_docente"`
	CattedraClasseID  uuid.UUID `json:"cattedra_classe_id"  gorm:"column:cattedra_classe_id;type:uuid;not null;index:idx_cattedre_classe"`
	CattedraMateriaID uuid.UUID `json:"cattedra_materia_id" gorm:"column:cattedra_materia_id;type:uuid;not null"`

	// Valorizzato solo per il sostegno (materia di tipo S)
	CattedraAlunnoID *uuid.UUID `json:"cattedra_alunno_id,omitempty" gorm:"column:cattedra_alunno_id;type:uuid"`

	CattedraTipo      string `json:"cattedra_tipo"      gorm:"column:cattedra_tipo;type:varchar(1);not null;default:'N'"`
	CattedraAttiva    bool   `json:"cattedra_attiva"    gorm:"column:cattedra_attiva;not null;default:true"`
	CattedraSupplenza bool   `json:"cattedra_supplenza" gorm:"column:cattedra_supplenza;not null;default:false"`

	CattedraCreatedAt time.Time `json:"cattedra_created_at" gorm:"column:cattedra_created_at;not null;autoCreateTime"`
	CattedraUpdatedAt time.Time `json:"cattedra_updated_at" gorm:"column:cattedra_updated_at;not null;autoUpdateTime"`
}

func (CattedraModel) TableName() string { return "cattedre" }

func (m *CattedraModel) BeforeCreate(tx *gorm.DB) error {
	if m.CattedraID == uuid.Nil {
		m.CattedraID = uuid.New()
	}
	return nil
}
