package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Griglia oraria di un giorno: giorno 0=domenica .. 6=sabato,
// ora progressiva da 1, inizio/fine "HH:MM", durata in ore di lezione.
type ScansioneOrariaModel struct {
	ScansioneOrariaID uuid.UUID `json:"scansione_oraria_id" gorm:"column:scansione_oraria_id;type:uuid;primaryKey"`

	ScansioneOrariaOrarioID uuid.UUID `json:"scansione_oraria_orario_id" gorm:"column:scansione_oraria_orario_id;type:uuid;not null;uniqueIndex:uq_scansioni_orario_giorno_ora"`

	ScansioneOrariaGiorno int `json:"scansione_oraria_giorno" gorm:"column:scansione_oraria_giorno;not null;uniqueIndex:uq_scansioni_orario_giorno_ora"`
	ScansioneOrariaOra    int `json:"scansione_oraria_ora"    gorm:"column:scansione_oraria_ora;not null;uniqueIndex:uq_scansioni_orario_giorno_ora"`

	ScansioneOrariaInizio string  `json:"scansione_oraria_inizio" gorm:"column:scansione_oraria_inizio;type:varchar(5);not null"`
	ScansioneOrariaFine   string  `json:"scansione_oraria_fine"   gorm:"column:scansione_oraria_fine;type:varchar(5);not null"`
	ScansioneOrariaDurata float64 `json:"scansione_oraria_durata" gorm:"column:scansione_oraria_durata;not null;default:1"`
}

func (ScansioneOrariaModel) TableName() string { return "scansioni_orarie" }

func (m *ScansioneOrariaModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScansioneOrariaID == uuid.Nil {
		m.ScansioneOrariaID = uuid.New()
	}
	return nil
}
