package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entrata in ritardo di un alunno (ora "HH:MM").
type EntrataModel struct {
	EntrataID uuid.UUID `json:"entrata_id" gorm:"column:entrata_id;type:uuid;primaryKey"`

	EntrataAlunnoID uuid.UUID `json:"entrata_alunno_id" gorm:"column:entrata_alunno_id;type:uuid;not null;uniqueIndex:uq_entrate_alunno_data"`
	EntrataData     time.Time `json:"entrata_data"      gorm:"column:entrata_data;type:date;not null;uniqueIndex:uq_entrate_alunno_data"`

	EntrataOra          string `json:"entrata_ora"           gorm:"column:entrata_ora;type:varchar(5);not null"`
	EntrataRitardoBreve bool   `json:"entrata_ritardo_breve" gorm:"column:entrata_ritardo_breve;not null;default:false"`

	EntrataNote *string `json:"entrata_note,omitempty" gorm:"column:entrata_note;type:text"`

	EntrataDocenteID           uuid.UUID  `json:"entrata_docente_id" gorm:"column:entrata_docente_id;type:uuid;not null"`
	EntrataGiustificato        *time.Time `json:"entrata_giustificato,omitempty"          gorm:"column:entrata_giustificato;type:date"`
	EntrataDocenteGiustificaID *uuid.UUID `json:"entrata_docente_giustifica_id,omitempty" gorm:"column:entrata_docente_giustifica_id;type:uuid"`

	EntrataCreatedAt time.Time `json:"entrata_created_at" gorm:"column:entrata_created_at;not null;autoCreateTime"`
	EntrataUpdatedAt time.Time `json:"entrata_updated_at" gorm:"column:entrata_updated_at;not null;autoUpdateTime"`
}

func (EntrataModel) TableName() string { return "entrate" }

func (m *EntrataModel) BeforeCreate(tx *gorm.DB) error {
	if m.EntrataID == uuid.Nil {
		m.EntrataID = uuid.New()
	}
	return nil
}
