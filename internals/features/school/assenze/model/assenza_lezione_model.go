package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ore di assenza di un alunno su una singola lezione. Tabella derivata:
// il motore di ricalcolo la riscrive, mai aggiornata a mano.
type AssenzaLezioneModel struct {
	AssenzaLezioneID uuid.UUID `json:"assenza_lezione_id" gorm:"column:assenza_lezione_id;type:uuid;primaryKey"`

	AssenzaLezioneLezioneID uuid.UUID `json:"assenza_lezione_lezione_id" gorm:"column:assenza_lezione_lezione_id;type:uuid;not null;uniqueIndex:uq_assenze_lezioni_lezione_alunno"`
	AssenzaLezioneAlunnoID  uuid.UUID `json:"assenza_lezione_alunno_id"  gorm:"column:assenza_lezione_alunno_id;type:uuid;not null;uniqueIndex:uq_assenze_lezioni_lezione_alunno"`

	// Ore in passi di 0.5
	AssenzaLezioneOre decimal.Decimal `json:"assenza_lezione_ore" gorm:"column:assenza_lezione_ore;type:numeric(4,2);not null"`
}

func (AssenzaLezioneModel) TableName() string { return "assenze_lezioni" }

func (m *AssenzaLezioneModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssenzaLezioneID == uuid.Nil {
		m.AssenzaLezioneID = uuid.New()
	}
	return nil
}
