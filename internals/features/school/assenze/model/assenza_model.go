package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assenza giornaliera di un alunno.
type AssenzaModel struct {
	AssenzaID uuid.UUID `json:"assenza_id" gorm:"column:assenza_id;type:uuid;primaryKey"`

	AssenzaAlunnoID uuid.UUID `json:"assenza_alunno_id" gorm:"column:assenza_alunno_id;type:uuid;not null;uniqueIndex:uq_assenze_alunno_data"`
	AssenzaData     time.Time `json:"assenza_data"      gorm:"column:assenza_data;type:date;not null;uniqueIndex:uq_assenze_alunno_data"`

	// Chi ha registrato l'assenza
	AssenzaDocenteID uuid.UUID `json:"assenza_docente_id" gorm:"column:assenza_docente_id;type:uuid;not null"`

	// Giustificazione (data + docente che la registra)
	AssenzaGiustificato          *time.Time `json:"assenza_giustificato,omitempty"           gorm:"column:assenza_giustificato;type:date"`
	AssenzaDocenteGiustificaID   *uuid.UUID `json:"assenza_docente_giustifica_id,omitempty"  gorm:"column:assenza_docente_giustifica_id;type:uuid"`

	AssenzaCreatedAt time.Time `json:"assenza_created_at" gorm:"column:assenza_created_at;not null;autoCreateTime"`
	AssenzaUpdatedAt time.Time `json:"assenza_updated_at" gorm:"column:assenza_updated_at;not null;autoUpdateTime"`
}

func (AssenzaModel) TableName() string { return "assenze" }

func (m *AssenzaModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssenzaID == uuid.Nil {
		m.AssenzaID = uuid.New()
	}
	return nil
}
