package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	anagservice "scuoladigitale_backend/internals/features/school/anagrafica/service"
	"scuoladigitale_backend/internals/features/school/assenze/model"
	calmodel "scuoladigitale_backend/internals/features/school/calendario/model"
	calservice "scuoladigitale_backend/internals/features/school/calendario/service"
	lezmodel "scuoladigitale_backend/internals/features/school/lezioni/model"
	helper "scuoladigitale_backend/internals/helpers"
)

// RicalcoloService rigenera le ore di assenza per lezione. Le righe di
// assenze_lezioni sono dati derivati: si cancellano e si reinseriscono,
// mai si aggiornano, così il ricalcolo è idempotente.
type RicalcoloService struct {
	DB         *gorm.DB
	Calendario *calservice.CalendarioService
	Anagrafica *anagservice.AnagraficaService
}

func NewRicalcolo(db *gorm.DB) *RicalcoloService {
	return &RicalcoloService{
		DB:         db,
		Calendario: calservice.New(db),
		Anagrafica: anagservice.New(db),
	}
}

func (s *RicalcoloService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// RicalcolaOreLezione riscrive le ore di assenza di tutti gli alunni
// della classe per una singola lezione.
func (s *RicalcoloService) RicalcolaOreLezione(tx *gorm.DB, data time.Time, lezione *lezmodel.LezioneModel) error {
	data = helper.TruncaData(data)
	db := s.conn(tx)

	if err := db.
		Where("assenza_lezione_lezione_id = ?", lezione.LezioneID).
		Delete(&model.AssenzaLezioneModel{}).Error; err != nil {
		return err
	}

	scansione, err := s.scansioneDellaLezione(tx, data, lezione)
	if err != nil {
		return err
	}
	if scansione == nil {
		// nessuna griglia oraria per il giorno: niente ore da derivare
		return nil
	}

	alunni, err := s.Anagrafica.AlunniInData(tx, data, lezione.LezioneClasseID)
	if err != nil {
		return err
	}
	for _, alunno := range alunni {
		ore, err := s.oreAssenza(tx, alunno.AlunnoID, data, scansione)
		if err != nil {
			return err
		}
		if ore.IsZero() {
			continue
		}
		riga := model.AssenzaLezioneModel{
			AssenzaLezioneLezioneID: lezione.LezioneID,
			AssenzaLezioneAlunnoID:  alunno.AlunnoID,
			AssenzaLezioneOre:       ore,
		}
		if err := db.Create(&riga).Error; err != nil {
			return err
		}
	}
	return nil
}

// RicalcolaOreAlunno riscrive le ore di assenza dell'alunno per tutte
// le lezioni del giorno della sua classe.
func (s *RicalcoloService) RicalcolaOreAlunno(tx *gorm.DB, data time.Time, alunnoID uuid.UUID) error {
	data = helper.TruncaData(data)
	db := s.conn(tx)

	if err := db.
		Where("assenza_lezione_alunno_id = ? AND assenza_lezione_lezione_id IN (?)",
			alunnoID,
			db.Session(&gorm.Session{NewDB: true}).
				Model(&lezmodel.LezioneModel{}).
				Select("lezione_id").
				Where("lezione_data = ?", data)).
		Delete(&model.AssenzaLezioneModel{}).Error; err != nil {
		return err
	}

	classeID, err := s.Anagrafica.ClasseInData(tx, data, alunnoID)
	if err != nil {
		return err
	}
	if classeID == nil {
		return nil
	}

	var lezioni []lezmodel.LezioneModel
	if err := db.
		Where("lezione_classe_id = ? AND lezione_data = ?", *classeID, data).
		Order("lezione_ora ASC").
		Find(&lezioni).Error; err != nil {
		return err
	}

	for i := range lezioni {
		scansione, err := s.scansioneDellaLezione(tx, data, &lezioni[i])
		if err != nil {
			return err
		}
		if scansione == nil {
			continue
		}
		ore, err := s.oreAssenza(tx, alunnoID, data, scansione)
		if err != nil {
			return err
		}
		if ore.IsZero() {
			continue
		}
		riga := model.AssenzaLezioneModel{
			AssenzaLezioneLezioneID: lezioni[i].LezioneID,
			AssenzaLezioneAlunnoID:  alunnoID,
			AssenzaLezioneOre:       ore,
		}
		if err := db.Create(&riga).Error; err != nil {
			return err
		}
	}
	return nil
}

// RicalcolaDopoTrasferimento riallinea le ore derivate dell'alunno dopo
// un cambio classe retrodatato: ogni giorno dalla data in poi con righe
// in assenze_lezioni viene ricalcolato contro la classe di appartenenza
// alla data, così le righe della vecchia classe spariscono.
func (s *RicalcoloService) RicalcolaDopoTrasferimento(tx *gorm.DB, alunnoID uuid.UUID, daData time.Time) error {
	daData = helper.TruncaData(daData)

	var date []time.Time
	err := s.conn(tx).
		Model(&lezmodel.LezioneModel{}).
		Joins("JOIN assenze_lezioni ON assenze_lezioni.assenza_lezione_lezione_id = lezioni.lezione_id").
		Where("assenze_lezioni.assenza_lezione_alunno_id = ?", alunnoID).
		Where("lezioni.lezione_data >= ?", daData).
		Distinct().
		Pluck("lezioni.lezione_data", &date).Error
	if err != nil {
		return err
	}

	for _, giorno := range date {
		if err := s.RicalcolaOreAlunno(tx, giorno, alunnoID); err != nil {
			return err
		}
	}
	return nil
}

func (s *RicalcoloService) scansioneDellaLezione(tx *gorm.DB, data time.Time, lezione *lezmodel.LezioneModel) (*calmodel.ScansioneOrariaModel, error) {
	var classe struct {
		SedeID uuid.UUID `gorm:"column:classe_sede_id"`
	}
	err := s.conn(tx).Table("classi").
		Select("classe_sede_id").
		Where("classe_id = ?", lezione.LezioneClasseID).
		Take(&classe).Error
	if err != nil {
		return nil, err
	}

	scansioni, err := s.Calendario.OrarioInData(tx, data, classe.SedeID)
	if err != nil {
		return nil, err
	}
	for i := range scansioni {
		if scansioni[i].ScansioneOrariaOra == lezione.LezioneOra {
			return &scansioni[i], nil
		}
	}
	return nil, nil
}

// oreAssenza calcola le ore di assenza dell'alunno sull'ora di lezione:
// intera durata con assenza giornaliera, quota parte da entrata in
// ritardo e uscita anticipata, arrotondata per difetto a 0.5. Le
// sovrapposizioni non contano mai oltre la durata dell'ora.
func (s *RicalcoloService) oreAssenza(tx *gorm.DB, alunnoID uuid.UUID, data time.Time, scansione *calmodel.ScansioneOrariaModel) (decimal.Decimal, error) {
	db := s.conn(tx)

	var assenza model.AssenzaModel
	err := db.Where("assenza_alunno_id = ? AND assenza_data = ?", alunnoID, data).Take(&assenza).Error
	if err == nil {
		return decimal.NewFromFloat(scansione.ScansioneOrariaDurata), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	inizio, err := helper.MinutiOra(scansione.ScansioneOrariaInizio)
	if err != nil {
		return decimal.Zero, err
	}
	fine, err := helper.MinutiOra(scansione.ScansioneOrariaFine)
	if err != nil {
		return decimal.Zero, err
	}
	durata := scansione.ScansioneOrariaDurata
	if fine <= inizio || durata <= 0 {
		return decimal.Zero, fmt.Errorf("scansione oraria malformata: %s-%s durata %v",
			scansione.ScansioneOrariaInizio, scansione.ScansioneOrariaFine, durata)
	}
	// minuti che valgono un'unità di ora di lezione
	oraUnita := float64(fine-inizio) / durata

	quota := 0.0

	var entrata model.EntrataModel
	err = db.Where("entrata_alunno_id = ? AND entrata_data = ?", alunnoID, data).Take(&entrata).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}
	if err == nil {
		oraEntrata, convErr := helper.MinutiOra(entrata.EntrataOra)
		if convErr != nil {
			return decimal.Zero, convErr
		}
		if oraEntrata > inizio {
			quota = math.Min(float64(oraEntrata-inizio)/oraUnita, durata)
		}
	}

	var uscita model.UscitaModel
	err = db.Where("uscita_alunno_id = ? AND uscita_data = ?", alunnoID, data).Take(&uscita).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}
	if err == nil {
		oraUscita, convErr := helper.MinutiOra(uscita.UscitaOra)
		if convErr != nil {
			return decimal.Zero, convErr
		}
		if oraUscita < fine {
			quota = math.Min(quota+float64(fine-oraUscita)/oraUnita, durata)
		}
	}

	// passi di mezz'ora, per difetto
	ore := math.Floor(quota/0.5) * 0.5
	if ore <= 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromFloat(ore), nil
}
