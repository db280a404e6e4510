package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di firma: N = curricolare, S = sostegno.
const (
	FirmaNormale  = "N"
	FirmaSostegno = "S"
)

// Firma di un docente su una lezione. Il tipo discrimina i campi:
// una firma di sostegno porta alunno, argomento e attività propri.
type FirmaModel struct {
	FirmaID uuid.UUID `json:"firma_id" gorm:"column:firma_id;type:uuid;primaryKey"`

	// Un docente firma una lezione al più una volta
	FirmaLezioneID uuid.UUID `json:"firma_lezione_id" gorm:"column:firma_lezione_id;type:uuid;not null;uniqueIndex:uq_firme_lezione_docente"`
	FirmaDocenteID uuid.UUID `json:"firma_docente_id" gorm:"column:firma_docente_id;type:uuid;not null;uniqueIndex:uq_firme_lezione_docente"`

	FirmaTipo string `json:"firma_tipo" gorm:"column:firma_tipo;type:varchar(1);not null;default:'N'"`

	// Solo per firma di sostegno
	FirmaAlunnoID  *uuid.UUID `json:"firma_alunno_id,omitempty"  gorm:"column:firma_alunno_id;type:uuid"`
	FirmaArgomento *string    `json:"firma_argomento,omitempty"  gorm:"column:firma_argomento;type:text"`
	FirmaAttivita  *string    `json:"firma_attivita,omitempty"   gorm:"column:firma_attivita;type:text"`

	FirmaCreatedAt time.Time `json:"firma_created_at" gorm:"column:firma_created_at;not null;autoCreateTime"`
	FirmaUpdatedAt time.Time `json:"firma_updated_at" gorm:"column:firma_updated_at;not null;autoUpdateTime"`
}

func (FirmaModel) TableName() string { return "firme" }

func (m *FirmaModel) BeforeCreate(tx *gorm.DB) error {
	if m.FirmaID == uuid.Nil {
		m.FirmaID = uuid.New()
	}
	return nil
}

func (m *FirmaModel) IsSostegno() bool { return m.FirmaTipo == FirmaSostegno }
