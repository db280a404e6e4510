package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/features/school/anagrafica/model"
	assenzemodel "scuoladigitale_backend/internals/features/school/assenze/model"
	helper "scuoladigitale_backend/internals/helpers"
)

// Il registro delle cattedre impone al più una cattedra attiva per
// (docente, classe, materia, alunno).
var ErrCattedraDuplicata = errors.New("cattedra attiva già esistente")

// Il trasferimento è negato finché esistono valutazioni su lezioni
// della classe successive alla data.
var ErrValutazioniPresenti = errors.New("classe_valutazioni_presenti")

type AnagraficaService struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *AnagraficaService {
	return &AnagraficaService{DB: db}
}

func (s *AnagraficaService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

/* ===== Cattedre ===== */

// EsisteCattedra dice se il docente ha una cattedra attiva non di
// sostegno per la materia nella classe.
func (s *AnagraficaService) EsisteCattedra(tx *gorm.DB, docenteID, classeID, materiaID uuid.UUID) (bool, error) {
	var n int64
	err := s.conn(tx).
		Model(&model.CattedraModel{}).
		Joins("JOIN materie ON materie.materia_id = cattedre.cattedra_materia_id").
		Where("cattedra_docente_id = ? AND cattedra_classe_id = ? AND cattedra_materia_id = ?", docenteID, classeID, materiaID).
		Where("cattedra_attiva = ?", true).
		Where("materie.materia_tipo <> ?", model.MateriaSostegno).
		Count(&n).Error
	return n > 0, err
}

// CattedreAttive torna le cattedre attive del docente nella classe,
// comprese quelle di sostegno e le supplenze.
func (s *AnagraficaService) CattedreAttive(tx *gorm.DB, docenteID, classeID uuid.UUID) ([]model.CattedraModel, error) {
	var cattedre []model.CattedraModel
	err := s.conn(tx).
		Where("cattedra_docente_id = ? AND cattedra_classe_id = ? AND cattedra_attiva = ?", docenteID, classeID, true).
		Find(&cattedre).Error
	return cattedre, err
}

// HaCattedraInClasse: una qualsiasi cattedra attiva (anche supplenza)
// abilita il docente sulla classe.
func (s *AnagraficaService) HaCattedraInClasse(tx *gorm.DB, docenteID, classeID uuid.UUID) (bool, error) {
	var n int64
	err := s.conn(tx).
		Model(&model.CattedraModel{}).
		Where("cattedra_docente_id = ? AND cattedra_classe_id = ? AND cattedra_attiva = ?", docenteID, classeID, true).
		Count(&n).Error
	return n > 0, err
}

// CreaCattedra applica il vincolo di unicità del registro cattedre.
func (s *AnagraficaService) CreaCattedra(tx *gorm.DB, cattedra *model.CattedraModel) error {
	q := s.conn(tx).
		Model(&model.CattedraModel{}).
		Where("cattedra_docente_id = ? AND cattedra_classe_id = ? AND cattedra_materia_id = ?",
			cattedra.CattedraDocenteID, cattedra.CattedraClasseID, cattedra.CattedraMateriaID).
		Where("cattedra_attiva = ?", true)
	if cattedra.CattedraAlunnoID != nil {
		q = q.Where("cattedra_alunno_id = ?", *cattedra.CattedraAlunnoID)
	} else {
		q = q.Where("cattedra_alunno_id IS NULL")
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrCattedraDuplicata
	}
	return s.conn(tx).Create(cattedra).Error
}

/* ===== Appartenenza alla classe ===== */

// ClasseInData risolve la classe dell'alunno alla data attraverso le
// finestre di cambio classe. Da oggi in poi vale la classe corrente.
func (s *AnagraficaService) ClasseInData(tx *gorm.DB, data time.Time, alunnoID uuid.UUID) (*uuid.UUID, error) {
	data = helper.TruncaData(data)

	var alunno model.AlunnoModel
	if err := s.conn(tx).Where("alunno_id = ?", alunnoID).Take(&alunno).Error; err != nil {
		return nil, err
	}
	if !data.Before(helper.Oggi()) {
		return alunno.AlunnoClasseID, nil
	}

	var cambio model.CambioClasseModel
	err := s.conn(tx).
		Where("cambio_classe_alunno_id = ? AND cambio_classe_inizio <= ? AND cambio_classe_fine >= ?", alunnoID, data, data).
		Take(&cambio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return alunno.AlunnoClasseID, nil
	}
	if err != nil {
		return nil, err
	}
	return cambio.CambioClasseClasseID, nil
}

// AlunniInData torna gli alunni della classe alla data, ordinati per
// cognome e nome.
func (s *AnagraficaService) AlunniInData(tx *gorm.DB, data time.Time, classeID uuid.UUID) ([]model.AlunnoModel, error) {
	data = helper.TruncaData(data)

	var alunni []model.AlunnoModel
	if !data.Before(helper.Oggi()) {
		err := s.conn(tx).
			Where("alunno_classe_id = ? AND alunno_frequenza_estero = ?", classeID, false).
			Order("alunno_cognome ASC, alunno_nome ASC").
			Find(&alunni).Error
		return alunni, err
	}

	// membri correnti senza un cambio che copra la data, più chi in
	// quella finestra risultava proprio in questa classe
	err := s.conn(tx).
		Where(`(alunno_classe_id = ? AND alunno_frequenza_estero = ?
			AND NOT EXISTS (
				SELECT 1 FROM cambi_classe cc
				WHERE cc.cambio_classe_alunno_id = alunni.alunno_id
				  AND cc.cambio_classe_inizio <= ? AND cc.cambio_classe_fine >= ?))
			OR EXISTS (
				SELECT 1 FROM cambi_classe cc
				WHERE cc.cambio_classe_alunno_id = alunni.alunno_id
				  AND cc.cambio_classe_classe_id = ?
				  AND cc.cambio_classe_inizio <= ? AND cc.cambio_classe_fine >= ?)`,
			classeID, false, data, data, classeID, data, data).
		Order("alunno_cognome ASC, alunno_nome ASC").
		Find(&alunni).Error
	return alunni, err
}

// AlunniInPeriodo torna gli alunni presenti nella classe in almeno un
// giorno del periodo [inizio, fine].
func (s *AnagraficaService) AlunniInPeriodo(tx *gorm.DB, inizio, fine time.Time, classeID uuid.UUID) ([]model.AlunnoModel, error) {
	inizio = helper.TruncaData(inizio)
	fine = helper.TruncaData(fine)

	var alunni []model.AlunnoModel
	err := s.conn(tx).
		Where(`(alunno_classe_id = ? AND alunno_frequenza_estero = ?
			AND NOT EXISTS (
				SELECT 1 FROM cambi_classe cc
				WHERE cc.cambio_classe_alunno_id = alunni.alunno_id
				  AND cc.cambio_classe_inizio <= ? AND cc.cambio_classe_fine >= ?))
			OR EXISTS (
				SELECT 1 FROM cambi_classe cc
				WHERE cc.cambio_classe_alunno_id = alunni.alunno_id
				  AND cc.cambio_classe_classe_id = ?
				  AND cc.cambio_classe_inizio <= ? AND cc.cambio_classe_fine >= ?)`,
			classeID, false, inizio, fine, classeID, fine, inizio).
		Order("alunno_cognome ASC, alunno_nome ASC").
		Find(&alunni).Error
	return alunni, err
}

// PresentiInData: alunni della classe alla data senza assenza giornaliera.
func (s *AnagraficaService) PresentiInData(tx *gorm.DB, data time.Time, classeID uuid.UUID) ([]model.AlunnoModel, error) {
	alunni, err := s.AlunniInData(tx, data, classeID)
	if err != nil {
		return nil, err
	}
	data = helper.TruncaData(data)

	presenti := make([]model.AlunnoModel, 0, len(alunni))
	for _, a := range alunni {
		var n int64
		err := s.conn(tx).
			Model(&assenzemodel.AssenzaModel{}).
			Where("assenza_alunno_id = ? AND assenza_data = ?", a.AlunnoID, data).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		if n == 0 {
			presenti = append(presenti, a)
		}
	}
	return presenti, nil
}

/* ===== Trasferimenti ===== */

// TrasferisciAlunno sposta l'alunno in un'altra classe (nil = fuori
// dalla scuola) a partire dalla data. La finestra di cambio registra
// la vecchia classe fino al giorno prima.
func (s *AnagraficaService) TrasferisciAlunno(tx *gorm.DB, alunnoID uuid.UUID, data time.Time, nuovaClasseID *uuid.UUID, tipo string) error {
	data = helper.TruncaData(data)
	db := s.conn(tx)

	var alunno model.AlunnoModel
	if err := db.Where("alunno_id = ?", alunnoID).Take(&alunno).Error; err != nil {
		return err
	}
	if alunno.AlunnoClasseID == nil {
		// non frequentante: solo riassegnazione
		return db.Model(&model.AlunnoModel{}).
			Where("alunno_id = ?", alunnoID).
			Update("alunno_classe_id", nuovaClasseID).Error
	}

	// blocco: valutazioni su lezioni della classe dopo la data
	var n int64
	err := db.Table("valutazioni").
		Joins("JOIN lezioni ON lezioni.lezione_id = valutazioni.valutazione_lezione_id").
		Where("valutazioni.valutazione_alunno_id = ?", alunnoID).
		Where("lezioni.lezione_classe_id = ?", *alunno.AlunnoClasseID).
		Where("lezioni.lezione_data >= ?", data).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrValutazioniPresenti
	}

	// finestra: dov'era l'alunno fino a ieri
	inizio := data.AddDate(0, 0, -1)
	var ultimo model.CambioClasseModel
	err = db.Where("cambio_classe_alunno_id = ?", alunnoID).
		Order("cambio_classe_fine DESC").
		Take(&ultimo).Error
	switch {
	case err == nil:
		inizio = ultimo.CambioClasseFine.AddDate(0, 0, 1)
	case errors.Is(err, gorm.ErrRecordNotFound):
		inizio = helper.TruncaData(alunno.AlunnoCreatedAt)
	default:
		return err
	}
	if inizio.After(data.AddDate(0, 0, -1)) {
		inizio = data.AddDate(0, 0, -1)
	}

	cambio := model.CambioClasseModel{
		CambioClasseAlunnoID: alunnoID,
		CambioClasseInizio:   inizio,
		CambioClasseFine:     data.AddDate(0, 0, -1),
		CambioClasseClasseID: alunno.AlunnoClasseID,
		CambioClasseTipo:     tipo,
	}
	if err := db.Create(&cambio).Error; err != nil {
		return err
	}
	return db.Model(&model.AlunnoModel{}).
		Where("alunno_id = ?", alunnoID).
		Update("alunno_classe_id", nuovaClasseID).Error
}
