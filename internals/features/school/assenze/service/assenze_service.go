package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/features/school/assenze/model"
	calservice "scuoladigitale_backend/internals/features/school/calendario/service"
	helper "scuoladigitale_backend/internals/helpers"
)

// AssenzeService gestisce i record giornalieri (assenza, entrata,
// uscita) e tiene allineate le ore derivate tramite il ricalcolo.
type AssenzeService struct {
	DB         *gorm.DB
	Calendario *calservice.CalendarioService
	Ricalcolo  *RicalcoloService
}

func New(db *gorm.DB) *AssenzeService {
	return &AssenzeService{
		DB:         db,
		Calendario: calservice.New(db),
		Ricalcolo:  NewRicalcolo(db),
	}
}

func (s *AssenzeService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

/* ===== Appello ===== */

// Appello allinea le assenze giornaliere della classe alla lista degli
// assenti e ricalcola le ore solo per gli alunni cambiati.
func (s *AssenzeService) Appello(tx *gorm.DB, data time.Time, classeID, docenteID uuid.UUID, assenti []uuid.UUID) error {
	data = helper.TruncaData(data)
	db := s.conn(tx)

	alunni, err := s.Ricalcolo.Anagrafica.AlunniInData(tx, data, classeID)
	if err != nil {
		return err
	}
	assente := make(map[uuid.UUID]bool, len(assenti))
	for _, id := range assenti {
		assente[id] = true
	}

	for _, alunno := range alunni {
		var esistente model.AssenzaModel
		err := db.Where("assenza_alunno_id = ? AND assenza_data = ?", alunno.AlunnoID, data).
			Take(&esistente).Error
		trovata := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch {
		case assente[alunno.AlunnoID] && !trovata:
			riga := model.AssenzaModel{
				AssenzaAlunnoID:  alunno.AlunnoID,
				AssenzaData:      data,
				AssenzaDocenteID: docenteID,
			}
			if err := db.Create(&riga).Error; err != nil {
				return err
			}
		case !assente[alunno.AlunnoID] && trovata:
			if err := db.Delete(&esistente).Error; err != nil {
				return err
			}
		default:
			continue
		}
		if err := s.Ricalcolo.RicalcolaOreAlunno(tx, data, alunno.AlunnoID); err != nil {
			return err
		}
	}
	return nil
}

/* ===== Entrate e uscite ===== */

// RegistraEntrata crea o aggiorna l'entrata in ritardo del giorno,
// marcando il ritardo breve secondo la tolleranza di sede.
func (s *AssenzeService) RegistraEntrata(tx *gorm.DB, data time.Time, alunnoID, docenteID, sedeID uuid.UUID, ora string, note *string) error {
	data = helper.TruncaData(data)
	db := s.conn(tx)

	breve, err := s.Calendario.SeRitardoBreve(tx, data, ora, sedeID)
	if err != nil {
		return err
	}

	var esistente model.EntrataModel
	err = db.Where("entrata_alunno_id = ? AND entrata_data = ?", alunnoID, data).Take(&esistente).Error
	switch {
	case err == nil:
		aggiornamenti := map[string]interface{}{
			"entrata_ora":           ora,
			"entrata_ritardo_breve": breve,
			"entrata_note":          note,
			"entrata_docente_id":    docenteID,
		}
		if err := db.Model(&esistente).Updates(aggiornamenti).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		riga := model.EntrataModel{
			EntrataAlunnoID:     alunnoID,
			EntrataData:         data,
			EntrataOra:          ora,
			EntrataRitardoBreve: breve,
			EntrataNote:         note,
			EntrataDocenteID:    docenteID,
		}
		if err := db.Create(&riga).Error; err != nil {
			return err
		}
	default:
		return err
	}
	return s.Ricalcolo.RicalcolaOreAlunno(tx, data, alunnoID)
}

func (s *AssenzeService) RimuoviEntrata(tx *gorm.DB, data time.Time, alunnoID uuid.UUID) error {
	data = helper.TruncaData(data)
	res := s.conn(tx).
		Where("entrata_alunno_id = ? AND entrata_data = ?", alunnoID, data).
		Delete(&model.EntrataModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return s.Ricalcolo.RicalcolaOreAlunno(tx, data, alunnoID)
}

func (s *AssenzeService) RegistraUscita(tx *gorm.DB, data time.Time, alunnoID, docenteID uuid.UUID, ora string, note *string) error {
	data = helper.TruncaData(data)
	db := s.conn(tx)

	var esistente model.UscitaModel
	err := db.Where("uscita_alunno_id = ? AND uscita_data = ?", alunnoID, data).Take(&esistente).Error
	switch {
	case err == nil:
		aggiornamenti := map[string]interface{}{
			"uscita_ora":        ora,
			"uscita_note":       note,
			"uscita_docente_id": docenteID,
		}
		if err := db.Model(&esistente).Updates(aggiornamenti).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		riga := model.UscitaModel{
			UscitaAlunnoID:  alunnoID,
			UscitaData:      data,
			UscitaOra:       ora,
			UscitaNote:      note,
			UscitaDocenteID: docenteID,
		}
		if err := db.Create(&riga).Error; err != nil {
			return err
		}
	default:
		return err
	}
	return s.Ricalcolo.RicalcolaOreAlunno(tx, data, alunnoID)
}

func (s *AssenzeService) RimuoviUscita(tx *gorm.DB, data time.Time, alunnoID uuid.UUID) error {
	data = helper.TruncaData(data)
	res := s.conn(tx).
		Where("uscita_alunno_id = ? AND uscita_data = ?", alunnoID, data).
		Delete(&model.UscitaModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return s.Ricalcolo.RicalcolaOreAlunno(tx, data, alunnoID)
}

/* ===== Giustificazioni ===== */

// Giustifica marca come giustificate le assenze indicate.
func (s *AssenzeService) Giustifica(tx *gorm.DB, docenteID uuid.UUID, assenzeID []uuid.UUID) error {
	oggi := helper.Oggi()
	return s.conn(tx).
		Model(&model.AssenzaModel{}).
		Where("assenza_id IN ? AND assenza_giustificato IS NULL", assenzeID).
		Updates(map[string]interface{}{
			"assenza_giustificato":          oggi,
			"assenza_docente_giustifica_id": docenteID,
		}).Error
}

// GiustificaEntrate marca come giustificate le entrate in ritardo.
func (s *AssenzeService) GiustificaEntrate(tx *gorm.DB, docenteID uuid.UUID, entrateID []uuid.UUID) error {
	oggi := helper.Oggi()
	return s.conn(tx).
		Model(&model.EntrataModel{}).
		Where("entrata_id IN ? AND entrata_giustificato IS NULL", entrateID).
		Updates(map[string]interface{}{
			"entrata_giustificato":          oggi,
			"entrata_docente_giustifica_id": docenteID,
		}).Error
}
