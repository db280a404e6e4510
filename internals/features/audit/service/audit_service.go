package service

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/features/audit/model"
)

// AuditService scrive log azioni e notifiche. Best-effort per
// contratto: un errore qui viene loggato e mai propagato, la mutazione
// del registro non deve fallire per colpa dell'audit. Per questo le
// scritture usano la connessione base e non la transazione in corso.
type AuditService struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

// LogAzione registra chi ha fatto cosa, con il changeset serializzato.
func (s *AuditService) LogAzione(docenteID *uuid.UUID, ip, categoria, azione, origine string, dati interface{}) {
	payload, err := json.Marshal(dati)
	if err != nil {
		log.Printf("⚠️  audit: changeset non serializzabile (%s/%s): %v", categoria, azione, err)
		payload = []byte("{}")
	}
	riga := model.LogAzioneModel{
		LogAzioneDocenteID: docenteID,
		LogAzioneIP:        ip,
		LogAzioneCategoria: categoria,
		LogAzioneAzione:    azione,
		LogAzioneOrigine:   origine,
		LogAzioneDati:      datatypes.JSON(payload),
	}
	if err := s.DB.Create(&riga).Error; err != nil {
		log.Printf("⚠️  audit: scrittura log fallita (%s/%s): %v", categoria, azione, err)
	}
}

// Notifica accoda una notifica per ciascun destinatario (eventi
// visibili alle famiglie: annotazioni visibili, note disciplinari).
func (s *AuditService) Notifica(destinatari []uuid.UUID, tipo string, dati interface{}) {
	payload, err := json.Marshal(dati)
	if err != nil {
		log.Printf("⚠️  notifiche: payload non serializzabile (%s): %v", tipo, err)
		return
	}
	for _, destinatario := range destinatari {
		riga := model.NotificaModel{
			NotificaDestinatarioID: destinatario,
			NotificaTipo:           tipo,
			NotificaDati:           datatypes.JSON(payload),
		}
		if err := s.DB.Create(&riga).Error; err != nil {
			log.Printf("⚠️  notifiche: scrittura fallita (%s): %v", tipo, err)
		}
	}
}
