package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlunnoModel struct {
	// PK
	AlunnoID uuid.UUID `json:"alunno_id" gorm:"column:alunno_id;type:uuid;primaryKey"`

	// Anagrafica
	AlunnoNome        string    `json:"alunno_nome"         gorm:"column:alunno_nome;type:varchar(80);not null"`
	AlunnoCognome     string    `json:"alunno_cognome"      gorm:"column:alunno_cognome;type:varchar(80);not null"`
	AlunnoDataNascita time.Time `json:"alunno_data_nascita" gorm:"column:alunno_data_nascita;type:date;not null"`

	// Classe corrente (null = non frequentante)
	AlunnoClasseID *uuid.UUID `json:"alunno_classe_id,omitempty" gorm:"column:alunno_classe_id;type:uuid;index"`

	// S = si avvale, A = attività alternativa, N = non si avvale
	AlunnoReligione       string `json:"alunno_religione"        gorm:"column:alunno_religione;type:varchar(1);not null;default:'S'"`
	AlunnoFrequenzaEstero bool   `json:"alunno_frequenza_estero" gorm:"column:alunno_frequenza_estero;not null;default:false"`

	AlunnoCreatedAt time.Time `json:"alunno_created_at" gorm:"column:alunno_created_at;not null;autoCreateTime"`
	AlunnoUpdatedAt time.Time `json:"alunno_updated_at" gorm:"column:alunno_updated_at;not null;autoUpdateTime"`
}

func (AlunnoModel) TableName() string { return "alunni" }

func (m *AlunnoModel) BeforeCreate(tx *gorm.DB) error {
	if m.AlunnoID == uuid.Nil {
		m.AlunnoID = uuid.New()
	}
	return nil
}
