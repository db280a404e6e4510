package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifica verso le famiglie per gli eventi visibili
// (annotazioni visibili, note disciplinari).
type NotificaModel struct {
	NotificaID uuid.UUID `json:"notifica_id" gorm:"column:notifica_id;type:uuid;primaryKey"`

	NotificaDestinatarioID uuid.UUID `json:"notifica_destinatario_id" gorm:"column:notifica_destinatario_id;type:uuid;not null;index"`
	NotificaTipo           string    `json:"notifica_tipo"            gorm:"column:notifica_tipo;type:varchar(30);not null"`

	NotificaDati datatypes.JSON `json:"notifica_dati" gorm:"column:notifica_dati;type:jsonb"`

	NotificaLetta     *time.Time `json:"notifica_letta,omitempty" gorm:"column:notifica_letta"`
	NotificaCreatedAt time.Time  `json:"notifica_created_at"      gorm:"column:notifica_created_at;not null;autoCreateTime"`
}

func (NotificaModel) TableName() string { return "notifiche" }

func (m *NotificaModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificaID == uuid.Nil {
		m.NotificaID = uuid.New()
	}
	return nil
}
