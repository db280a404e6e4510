package service

import (
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/features/school/note/model"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	helper "scuoladigitale_backend/internals/helpers"
)

// AvvisiService è il collaboratore "bacheca": un'annotazione visibile
// alle famiglie vive agganciata a un avviso e ogni modifica deve
// passare anche da qui.
type AvvisiService struct {
	DB *gorm.DB
}

func NewAvvisi(db *gorm.DB) *AvvisiService {
	return &AvvisiService{DB: db}
}

func (s *AvvisiService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// AzioneAvviso: l'avviso appartiene all'autore; lo staff può sempre
// intervenire.
func (s *AvvisiService) AzioneAvviso(azione string, cap regservice.Capacita, avviso *model.AvvisoModel) regservice.Esito {
	if azione == regservice.AzioneAggiungi {
		return regservice.Consentito()
	}
	if avviso == nil {
		return regservice.Negato(regservice.MotivoNonAutore)
	}
	if avviso.AvvisoDocenteID == cap.DocenteID || cap.Staff() {
		return regservice.Consentito()
	}
	return regservice.Negato(regservice.MotivoNonAutore)
}

// CreaPerAnnotazione apre l'avviso gemello dell'annotazione visibile
// e la aggancia.
func (s *AvvisiService) CreaPerAnnotazione(tx *gorm.DB, annotazione *model.AnnotazioneModel) error {
	avviso := model.AvvisoModel{
		AvvisoTipo:      model.AvvisoIndividuale,
		AvvisoDocenteID: annotazione.AnnotazioneDocenteID,
		AvvisoData:      helper.TruncaData(annotazione.AnnotazioneData),
		AvvisoTesto:     annotazione.AnnotazioneTesto,
	}
	if err := s.conn(tx).Create(&avviso).Error; err != nil {
		return err
	}
	annotazione.AnnotazioneAvvisoID = &avviso.AvvisoID
	return s.conn(tx).
		Model(&model.AnnotazioneModel{}).
		Where("annotazione_id = ?", annotazione.AnnotazioneID).
		Update("annotazione_avviso_id", avviso.AvvisoID).Error
}

// AggiornaPerAnnotazione riallinea l'avviso gemello a testo e data.
func (s *AvvisiService) AggiornaPerAnnotazione(tx *gorm.DB, annotazione *model.AnnotazioneModel) error {
	if annotazione.AnnotazioneAvvisoID == nil {
		return s.CreaPerAnnotazione(tx, annotazione)
	}
	return s.conn(tx).
		Model(&model.AvvisoModel{}).
		Where("avviso_id = ?", *annotazione.AnnotazioneAvvisoID).
		Updates(map[string]interface{}{
			"avviso_data":  helper.TruncaData(annotazione.AnnotazioneData),
			"avviso_testo": annotazione.AnnotazioneTesto,
		}).Error
}

// RimuoviPerAnnotazione stacca e cancella l'avviso gemello.
func (s *AvvisiService) RimuoviPerAnnotazione(tx *gorm.DB, annotazione *model.AnnotazioneModel) error {
	if annotazione.AnnotazioneAvvisoID == nil {
		return nil
	}
	avvisoID := *annotazione.AnnotazioneAvvisoID
	err := s.conn(tx).
		Model(&model.AnnotazioneModel{}).
		Where("annotazione_id = ?", annotazione.AnnotazioneID).
		Update("annotazione_avviso_id", nil).Error
	if err != nil {
		return err
	}
	annotazione.AnnotazioneAvvisoID = nil
	return s.conn(tx).
		Where("avviso_id = ?", avvisoID).
		Delete(&model.AvvisoModel{}).Error
}
