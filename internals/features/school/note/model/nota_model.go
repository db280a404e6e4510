package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di nota disciplinare.
const (
	NotaClasse      = "C"
	NotaIndividuale = "I"
)

type NotaModel struct {
	// PK
	NotaID uuid.UUID `json:"nota_id" gorm:"column:nota_id;type:uuid;primaryKey"`

	NotaTipo     string    `json:"nota_tipo"      gorm:"column:nota_tipo;type:varchar(1);not null;default:'C'"`
	NotaClasseID uuid.UUID `json:"nota_classe_id" gorm:"column:nota_classe_id;type:uuid;not null;index"`
	NotaData     time.Time `json:"nota_data"      gorm:"column:nota_data;type:date;not null"`

	NotaDocenteID uuid.UUID `json:"nota_docente_id" gorm:"column:nota_docente_id;type:uuid;not null"`
	NotaTesto     string    `json:"nota_testo"      gorm:"column:nota_testo;type:text;not null"`

	// Provvedimento disciplinare (staff)
	NotaProvvedimento          string     `json:"nota_provvedimento"                       gorm:"column:nota_provvedimento;type:text;not null;default:''"`
	NotaDocenteProvvedimentoID *uuid.UUID `json:"nota_docente_provvedimento_id,omitempty"  gorm:"column:nota_docente_provvedimento_id;type:uuid"`

	// Annullamento (al posto della cancellazione oltre la finestra)
	NotaAnnullata *time.Time `json:"nota_annullata,omitempty" gorm:"column:nota_annullata"`

	NotaCreatedAt time.Time `json:"nota_created_at" gorm:"column:nota_created_at;not null;autoCreateTime"`
	NotaUpdatedAt time.Time `json:"nota_updated_at" gorm:"column:nota_updated_at;not null;autoUpdateTime"`
}

func (NotaModel) TableName() string { return "note" }

func (m *NotaModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotaID == uuid.Nil {
		m.NotaID = uuid.New()
	}
	return nil
}

// Alunni destinatari di una nota individuale.
type NotaAlunnoModel struct {
	NotaAlunnoNotaID   uuid.UUID `json:"nota_alunno_nota_id"   gorm:"column:nota_alunno_nota_id;type:uuid;primaryKey"`
	NotaAlunnoAlunnoID uuid.UUID `json:"nota_alunno_alunno_id" gorm:"column:nota_alunno_alunno_id;type:uuid;primaryKey"`
}

func (NotaAlunnoModel) TableName() string { return "note_alunni" }
