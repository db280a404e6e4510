package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	anagservice "scuoladigitale_backend/internals/features/school/anagrafica/service"
	"scuoladigitale_backend/internals/features/school/note/model"
	helper "scuoladigitale_backend/internals/helpers"
)

// parole che coincidono con nomi propri ma sono quasi sempre articoli
// o preposizioni nel testo di una nota
var paroleEscluse = map[string]bool{
	"da": true, "de": true, "di": true, "del": true,
	"dal": true, "della": true, "la": true,
}

var separatoreParole = regexp.MustCompile(`[^a-zàèéìòù]+`)

// NoteService: note disciplinari, annotazioni e controllo del testo.
type NoteService struct {
	DB         *gorm.DB
	Anagrafica *anagservice.AnagraficaService
	Avvisi     *AvvisiService
}

func New(db *gorm.DB) *NoteService {
	return &NoteService{
		DB:         db,
		Anagrafica: anagservice.New(db),
		Avvisi:     NewAvvisi(db),
	}
}

func (s *NoteService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

/* ===== Controllo del testo ===== */

// ContieneNomiAlunni cerca nel testo nomi o cognomi degli alunni della
// classe alla data; torna il primo trovato in maiuscolo, nil se pulito.
func (s *NoteService) ContieneNomiAlunni(tx *gorm.DB, data time.Time, classeID uuid.UUID, testo string) (*string, error) {
	alunni, err := s.Anagrafica.AlunniInData(tx, data, classeID)
	if err != nil {
		return nil, err
	}

	parole := separatoreParole.Split(strings.ToLower(testo), -1)
	for _, parola := range parole {
		if parola == "" || paroleEscluse[parola] {
			continue
		}
		for _, alunno := range alunni {
			if parola == strings.ToLower(alunno.AlunnoNome) || parola == strings.ToLower(alunno.AlunnoCognome) {
				trovato := strings.ToUpper(parola)
				return &trovato, nil
			}
		}
	}
	return nil, nil
}

/* ===== Annotazioni ===== */

// CreaAnnotazione salva l'annotazione e, se visibile, apre l'avviso gemello.
func (s *NoteService) CreaAnnotazione(tx *gorm.DB, annotazione *model.AnnotazioneModel) error {
	annotazione.AnnotazioneData = helper.TruncaData(annotazione.AnnotazioneData)
	if err := s.conn(tx).Create(annotazione).Error; err != nil {
		return err
	}
	if annotazione.AnnotazioneVisibile {
		return s.Avvisi.CreaPerAnnotazione(tx, annotazione)
	}
	return nil
}

// ModificaAnnotazione aggiorna testo, data e visibilità tenendo
// l'avviso gemello allineato (creato, aggiornato o rimosso).
func (s *NoteService) ModificaAnnotazione(tx *gorm.DB, annotazione *model.AnnotazioneModel, data time.Time, testo string, visibile bool) error {
	annotazione.AnnotazioneData = helper.TruncaData(data)
	annotazione.AnnotazioneTesto = testo
	annotazione.AnnotazioneVisibile = visibile

	err := s.conn(tx).
		Model(&model.AnnotazioneModel{}).
		Where("annotazione_id = ?", annotazione.AnnotazioneID).
		Updates(map[string]interface{}{
			"annotazione_data":     annotazione.AnnotazioneData,
			"annotazione_testo":    testo,
			"annotazione_visibile": visibile,
		}).Error
	if err != nil {
		return err
	}

	if visibile {
		return s.Avvisi.AggiornaPerAnnotazione(tx, annotazione)
	}
	return s.Avvisi.RimuoviPerAnnotazione(tx, annotazione)
}

// RimuoviAnnotazione cancella annotazione e avviso gemello.
func (s *NoteService) RimuoviAnnotazione(tx *gorm.DB, annotazione *model.AnnotazioneModel) error {
	if err := s.Avvisi.RimuoviPerAnnotazione(tx, annotazione); err != nil {
		return err
	}
	return s.conn(tx).
		Where("annotazione_id = ?", annotazione.AnnotazioneID).
		Delete(&model.AnnotazioneModel{}).Error
}

/* ===== Note disciplinari ===== */

// CreaNota salva la nota e i destinatari per le note individuali.
func (s *NoteService) CreaNota(tx *gorm.DB, nota *model.NotaModel, alunni []uuid.UUID) error {
	nota.NotaData = helper.TruncaData(nota.NotaData)
	if err := s.conn(tx).Create(nota).Error; err != nil {
		return err
	}
	if nota.NotaTipo != model.NotaIndividuale {
		return nil
	}
	for _, alunnoID := range alunni {
		link := model.NotaAlunnoModel{
			NotaAlunnoNotaID:   nota.NotaID,
			NotaAlunnoAlunnoID: alunnoID,
		}
		if err := s.conn(tx).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// ModificaNota riscrive testo e destinatari.
func (s *NoteService) ModificaNota(tx *gorm.DB, nota *model.NotaModel, testo string, alunni []uuid.UUID) error {
	err := s.conn(tx).
		Model(&model.NotaModel{}).
		Where("nota_id = ?", nota.NotaID).
		Update("nota_testo", testo).Error
	if err != nil {
		return err
	}
	if nota.NotaTipo != model.NotaIndividuale {
		return nil
	}
	if err := s.conn(tx).
		Where("nota_alunno_nota_id = ?", nota.NotaID).
		Delete(&model.NotaAlunnoModel{}).Error; err != nil {
		return err
	}
	for _, alunnoID := range alunni {
		link := model.NotaAlunnoModel{
			NotaAlunnoNotaID:   nota.NotaID,
			NotaAlunnoAlunnoID: alunnoID,
		}
		if err := s.conn(tx).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// RimuoviNota cancella nota e destinatari (solo entro la finestra,
// il gate sta nel motore).
func (s *NoteService) RimuoviNota(tx *gorm.DB, notaID uuid.UUID) error {
	if err := s.conn(tx).
		Where("nota_alunno_nota_id = ?", notaID).
		Delete(&model.NotaAlunnoModel{}).Error; err != nil {
		return err
	}
	return s.conn(tx).
		Where("nota_id = ?", notaID).
		Delete(&model.NotaModel{}).Error
}

// AnnullaNota marca la nota come annullata senza toccarne la storia.
func (s *NoteService) AnnullaNota(tx *gorm.DB, notaID uuid.UUID) error {
	adesso := time.Now()
	return s.conn(tx).
		Model(&model.NotaModel{}).
		Where("nota_id = ? AND nota_annullata IS NULL", notaID).
		Update("nota_annullata", adesso).Error
}

// RegistraProvvedimento scrive il provvedimento disciplinare.
func (s *NoteService) RegistraProvvedimento(tx *gorm.DB, notaID, docenteID uuid.UUID, testo string) error {
	return s.conn(tx).
		Model(&model.NotaModel{}).
		Where("nota_id = ?", notaID).
		Updates(map[string]interface{}{
			"nota_provvedimento":            testo,
			"nota_docente_provvedimento_id": docenteID,
		}).Error
}

/* ===== Osservazioni ===== */

func (s *NoteService) CreaOsservazione(tx *gorm.DB, osservazione *model.OsservazioneModel) error {
	osservazione.OsservazioneData = helper.TruncaData(osservazione.OsservazioneData)
	return s.conn(tx).Create(osservazione).Error
}

func (s *NoteService) ModificaOsservazione(tx *gorm.DB, osservazioneID uuid.UUID, testo string) error {
	return s.conn(tx).
		Model(&model.OsservazioneModel{}).
		Where("osservazione_id = ?", osservazioneID).
		Update("osservazione_testo", testo).Error
}

func (s *NoteService) RimuoviOsservazione(tx *gorm.DB, osservazioneID uuid.UUID) error {
	return s.conn(tx).
		Where("osservazione_id = ?", osservazioneID).
		Delete(&model.OsservazioneModel{}).Error
}
