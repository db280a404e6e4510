package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipi di giorno nel calendario scolastico.
const (
	FestivitaFestivo   = "F"
	FestivitaAssemblea = "A"
)

type FestivitaModel struct {
	// PK
	FestivitaID uuid.UUID `json:"festivita_id" gorm:"column:festivita_id;type:uuid;primaryKey"`

	// Sede interessata (null = tutte le sedi)
	FestivitaSedeID *uuid.UUID `json:"festivita_sede_id,omitempty" gorm:"column:festivita_sede_id;type:uuid;index"`

	FestivitaData        time.Time `json:"festivita_data"        gorm:"column:festivita_data;type:date;not null;index:idx_festivita_data"`
	FestivitaDescrizione string    `json:"festivita_descrizione" gorm:"column:festivita_descrizione;type:varchar(160);not null"`
	FestivitaTipo        string    `json:"festivita_tipo"        gorm:"column:festivita_tipo;type:varchar(1);not null;default:'F'"`

	FestivitaCreatedAt time.Time `json:"festivita_created_at" gorm:"column:festivita_created_at;not null;autoCreateTime"`
}

func (FestivitaModel) TableName() string { return "festivita" }

func (m *FestivitaModel) BeforeCreate(tx *gorm.DB) error {
	if m.FestivitaID == uuid.Nil {
		m.FestivitaID = uuid.New()
	}
	return nil
}
