package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di cambio classe.
const (
	CambioAmmissione    = "A"
	CambioTrasferimento = "T"
	CambioSezione       = "S"
	CambioAltro         = "O"
)

// Finestra [inizio, fine] in cui l'alunno NON era nella classe corrente;
// classe_id indica dove si trovava (null = fuori dalla scuola).
type CambioClasseModel struct {
	CambioClasseID uuid.UUID `json:"cambio_classe_id" gorm:"column:cambio_classe_id;type:uuid;primaryKey"`

	CambioClasseAlunnoID uuid.UUID `json:"cambio_classe_alunno_id" gorm:"column:cambio_classe_alunno_id;type:uuid;not null;index"`

	CambioClasseInizio time.Time `json:"cambio_classe_inizio" gorm:"column:cambio_classe_inizio;type:date;not null"`
	CambioClasseFine   time.Time `json:"cambio_classe_fine"   gorm:"column:cambio_classe_fine;type:date;not null"`

	CambioClasseClasseID *uuid.UUID `json:"cambio_classe_classe_id,omitempty" gorm:"column:cambio_classe_classe_id;type:uuid;index"`

	CambioClasseTipo string  `json:"cambio_classe_tipo" gorm:"column:cambio_classe_tipo;type:varchar(1);not null;default:'O'"`
	CambioClasseNote *string `json:"cambio_classe_note,omitempty" gorm:"column:cambio_classe_note;type:text"`

	CambioClasseCreatedAt time.Time `json:"cambio_classe_created_at" gorm:"column:cambio_classe_created_at;not null;autoCreateTime"`
}

func (CambioClasseModel) TableName() string { return "cambi_classe" }

func (m *CambioClasseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CambioClasseID == uuid.Nil {
		m.CambioClasseID = uuid.New()
	}
	return nil
}
