package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Uscita anticipata di un alunno (ora "HH:MM").
type UscitaModel struct {
	UscitaID uuid.UUID `json:"uscita_id" gorm:"column:uscita_id;type:uuid;primaryKey"`

	UscitaAlunnoID uuid.UUID `json:"uscita_alunno_id" gorm:"column:uscita_alunno_id;type:uuid;not null;uniqueIndex:uq_uscite_alunno_data"`
	UscitaData     time.Time `json:"uscita_data"      gorm:"column:uscita_data;type:date;not null;uniqueIndex:uq_uscite_alunno_data"`

	UscitaOra  string  `json:"uscita_ora"            gorm:"column:uscita_ora;type:varchar(5);not null"`
	UscitaNote *string `json:"uscita_note,omitempty" gorm:"column:uscita_note;type:text"`

	UscitaDocenteID uuid.UUID `json:"uscita_docente_id" gorm:"column:uscita_docente_id;type:uuid;not null"`

	UscitaCreatedAt time.Time `json:"uscita_created_at" gorm:"column:uscita_created_at;not null;autoCreateTime"`
	UscitaUpdatedAt time.Time `json:"uscita_updated_at" gorm:"column:uscita_updated_at;not null;autoUpdateTime"`
}

func (UscitaModel) TableName() string { return "uscite" }

func (m *UscitaModel) BeforeCreate(tx *gorm.DB) error {
	if m.UscitaID == uuid.Nil {
		m.UscitaID = uuid.New()
	}
	return nil
}
