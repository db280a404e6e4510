package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	anagmodel "scuoladigitale_backend/internals/features/school/anagrafica/model"
	assenzemodel "scuoladigitale_backend/internals/features/school/assenze/model"
	assenzeservice "scuoladigitale_backend/internals/features/school/assenze/service"
	calservice "scuoladigitale_backend/internals/features/school/calendario/service"
	"scuoladigitale_backend/internals/features/school/lezioni/model"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	valmodel "scuoladigitale_backend/internals/features/school/valutazioni/model"
	helper "scuoladigitale_backend/internals/helpers"
)

// LezioniService applica le mutazioni su lezioni e firme mantenendo
// gli invarianti del registro: uno slot per classe/data/ora, una firma
// per docente, ore di assenza sempre allineate.
type LezioniService struct {
	DB         *gorm.DB
	Calendario *calservice.CalendarioService
	Ricalcolo  *assenzeservice.RicalcoloService
}

func New(db *gorm.DB) *LezioniService {
	return &LezioniService{
		DB:         db,
		Calendario: calservice.New(db),
		Ricalcolo:  assenzeservice.NewRicalcolo(db),
	}
}

func (s *LezioniService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// RichiestaFirma descrive la firma da apporre sugli slot ora..OraFine.
type RichiestaFirma struct {
	ClasseID  uuid.UUID
	Data      time.Time
	Ora       int
	OraFine   int
	DocenteID uuid.UUID
	MateriaID uuid.UUID
	Argomento string
	Attivita  string
	// valorizzati per il sostegno
	Sostegno bool
	AlunnoID *uuid.UUID
}

// RisultatoRimozione riassume gli effetti della rimozione di una firma.
type RisultatoRimozione struct {
	FirmaRimossa    bool `json:"firma_rimossa"`
	LezioneRimossa  bool `json:"lezione_rimossa"`
	LezioneSostegno bool `json:"lezione_sostegno"`
	VotiRiassegnati int  `json:"voti_riassegnati"`
}

// Firme torna le firme della lezione nello slot, vuoto se lo slot è libero.
func (s *LezioniService) Firme(tx *gorm.DB, classeID uuid.UUID, data time.Time, ora int) (*model.LezioneModel, []model.FirmaModel, error) {
	data = helper.TruncaData(data)

	var lezione model.LezioneModel
	err := s.conn(tx).
		Where("lezione_classe_id = ? AND lezione_data = ? AND lezione_ora = ?", classeID, data, ora).
		Take(&lezione).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var firme []model.FirmaModel
	if err := s.conn(tx).
		Where("firma_lezione_id = ?", lezione.LezioneID).
		Find(&firme).Error; err != nil {
		return nil, nil, err
	}
	return &lezione, firme, nil
}

/* ===== CREATE (apri o estendi) ===== */

// CreaLezione firma gli slot richiesti: apre la lezione se lo slot è
// libero, altrimenti aggiunge la firma a quella esistente. La stessa
// richiesta ripetuta è un no-op (ErrDuplicato assorbito qui).
func (s *LezioniService) CreaLezione(tx *gorm.DB, req *RichiestaFirma) ([]model.LezioneModel, error) {
	data := helper.TruncaData(req.Data)

	oraFine := req.OraFine
	if oraFine < req.Ora {
		oraFine = req.Ora
	}

	var toccate []model.LezioneModel
	for ora := req.Ora; ora <= oraFine; ora++ {
		lezione, firme, err := s.Firme(tx, req.ClasseID, data, ora)
		if err != nil {
			return nil, err
		}

		if lezione == nil {
			nuova, err := s.apriLezione(tx, req, data, ora)
			if err != nil {
				return nil, err
			}
			if nuova == nil {
				continue // slot preso da una richiesta concorrente identica
			}
			toccate = append(toccate, *nuova)
			if err := s.ricalcola(tx, data, nuova); err != nil {
				return nil, err
			}
			continue
		}

		// slot occupato: il firmatario doppio è un no-op
		gia := false
		for _, f := range firme {
			if f.FirmaDocenteID == req.DocenteID {
				gia = true
				break
			}
		}
		if gia {
			continue
		}

		if err := s.estendiLezione(tx, req, lezione, firme); err != nil {
			return nil, err
		}
		toccate = append(toccate, *lezione)
	}
	return toccate, nil
}

func (s *LezioniService) apriLezione(tx *gorm.DB, req *RichiestaFirma, data time.Time, ora int) (*model.LezioneModel, error) {
	db := s.conn(tx)

	materiaID := req.MateriaID
	argomento, attivita := req.Argomento, req.Attivita
	if req.Sostegno {
		// la lezione aperta dal solo sostegno resta senza contenuto curricolare
		argomento, attivita = "", ""
	}

	lezione := model.LezioneModel{
		LezioneClasseID:  req.ClasseID,
		LezioneData:      data,
		LezioneOra:       ora,
		LezioneMateriaID: materiaID,
		LezioneArgomento: argomento,
		LezioneAttivita:  attivita,
	}
	if err := db.Create(&lezione).Error; err != nil {
		if regservice.SeViolazioneUnicita(err) {
			// doppione concorrente sullo stesso slot: riparti dallo stato attuale
			esistente, firme, ferr := s.Firme(tx, req.ClasseID, data, ora)
			if ferr != nil || esistente == nil {
				return nil, regservice.ErrDuplicato
			}
			for _, f := range firme {
				if f.FirmaDocenteID == req.DocenteID {
					return nil, nil
				}
			}
			if err := s.estendiLezione(tx, req, esistente, firme); err != nil {
				return nil, err
			}
			return esistente, nil
		}
		return nil, err
	}

	if err := db.Create(s.firmaPer(req, lezione.LezioneID)).Error; err != nil {
		if regservice.SeViolazioneUnicita(err) {
			return nil, nil
		}
		return nil, err
	}
	return &lezione, nil
}

func (s *LezioniService) estendiLezione(tx *gorm.DB, req *RichiestaFirma, lezione *model.LezioneModel, firme []model.FirmaModel) error {
	db := s.conn(tx)

	if !req.Sostegno {
		// una lezione tenuta solo dal sostegno torna curricolare
		// quando la firma un docente di materia
		soloSostegno := true
		for _, f := range firme {
			if !f.IsSostegno() {
				soloSostegno = false
				break
			}
		}
		tipoMateria, err := s.tipoMateria(tx, lezione.LezioneMateriaID)
		if err != nil {
			return err
		}
		if soloSostegno && tipoMateria == anagmodel.MateriaSostegno {
			aggiornamenti := map[string]interface{}{
				"lezione_materia_id": req.MateriaID,
				"lezione_argomento":  req.Argomento,
				"lezione_attivita":   req.Attivita,
			}
			if err := db.Model(lezione).Updates(aggiornamenti).Error; err != nil {
				return err
			}
			lezione.LezioneMateriaID = req.MateriaID
			lezione.LezioneArgomento = req.Argomento
			lezione.LezioneAttivita = req.Attivita
		}
	}

	if err := db.Create(s.firmaPer(req, lezione.LezioneID)).Error; err != nil {
		if regservice.SeViolazioneUnicita(err) {
			return nil
		}
		return err
	}
	return nil
}

func (s *LezioniService) firmaPer(req *RichiestaFirma, lezioneID uuid.UUID) *model.FirmaModel {
	firma := model.FirmaModel{
		FirmaLezioneID: lezioneID,
		FirmaDocenteID: req.DocenteID,
		FirmaTipo:      model.FirmaNormale,
	}
	if req.Sostegno {
		firma.FirmaTipo = model.FirmaSostegno
		firma.FirmaAlunnoID = req.AlunnoID
		if req.Argomento != "" {
			arg := req.Argomento
			firma.FirmaArgomento = &arg
		}
		if req.Attivita != "" {
			att := req.Attivita
			firma.FirmaAttivita = &att
		}
	}
	return &firma
}

/* ===== UPDATE ===== */

// ModificaLezione aggiorna argomento e attività: sulla lezione per la
// firma curricolare, sulla firma stessa per il sostegno.
func (s *LezioniService) ModificaLezione(tx *gorm.DB, lezioneID, docenteID uuid.UUID, argomento, attivita string) error {
	db := s.conn(tx)

	var firma model.FirmaModel
	err := db.Where("firma_lezione_id = ? AND firma_docente_id = ?", lezioneID, docenteID).
		Take(&firma).Error
	if err != nil {
		return err
	}

	if firma.IsSostegno() {
		return db.Model(&firma).Updates(map[string]interface{}{
			"firma_argomento": argomento,
			"firma_attivita":  attivita,
		}).Error
	}
	return db.Model(&model.LezioneModel{}).
		Where("lezione_id = ?", lezioneID).
		Updates(map[string]interface{}{
			"lezione_argomento": argomento,
			"lezione_attivita":  attivita,
		}).Error
}

/* ===== DELETE (cascata) ===== */

// RimuoviFirma toglie la firma del docente dalla lezione e sistema ciò
// che resta: i voti del docente migrano su un'altra sua lezione del
// giorno (stessa classe e materia) altrimenti ErrIntegrita; l'ultima
// firma porta via lezione e ore derivate; se restano solo firme di
// sostegno la lezione degrada a sostegno e perde il contenuto.
func (s *LezioniService) RimuoviFirma(tx *gorm.DB, lezioneID, docenteID uuid.UUID) (*RisultatoRimozione, error) {
	db := s.conn(tx)

	var lezione model.LezioneModel
	if err := db.Where("lezione_id = ?", lezioneID).Take(&lezione).Error; err != nil {
		return nil, err
	}
	var firme []model.FirmaModel
	if err := db.Where("firma_lezione_id = ?", lezioneID).Find(&firme).Error; err != nil {
		return nil, err
	}

	var propria *model.FirmaModel
	restanti := make([]model.FirmaModel, 0, len(firme))
	for i := range firme {
		if firme[i].FirmaDocenteID == docenteID {
			propria = &firme[i]
		} else {
			restanti = append(restanti, firme[i])
		}
	}
	if propria == nil {
		return nil, gorm.ErrRecordNotFound
	}

	esito := &RisultatoRimozione{FirmaRimossa: true}

	// voti del docente ancorati a questa lezione
	var voti []valmodel.ValutazioneModel
	err := db.Where("valutazione_lezione_id = ? AND valutazione_docente_id = ?", lezioneID, docenteID).
		Find(&voti).Error
	if err != nil {
		return nil, err
	}
	if len(voti) > 0 {
		destinazione, err := s.lezioneDiRipiego(tx, &lezione, docenteID)
		if err != nil {
			return nil, err
		}
		if destinazione == nil {
			return nil, regservice.ErrIntegrita
		}
		err = db.Model(&valmodel.ValutazioneModel{}).
			Where("valutazione_lezione_id = ? AND valutazione_docente_id = ?", lezioneID, docenteID).
			Update("valutazione_lezione_id", destinazione.LezioneID).Error
		if err != nil {
			return nil, err
		}
		esito.VotiRiassegnati = len(voti)
	}

	if err := db.Delete(propria).Error; err != nil {
		return nil, err
	}

	if len(restanti) == 0 {
		if err := db.Where("assenza_lezione_lezione_id = ?", lezioneID).
			Delete(&assenzemodel.AssenzaLezioneModel{}).Error; err != nil {
			return nil, err
		}
		if err := db.Delete(&lezione).Error; err != nil {
			return nil, err
		}
		esito.LezioneRimossa = true
		return esito, nil
	}

	soloSostegno := true
	for _, f := range restanti {
		if !f.IsSostegno() {
			soloSostegno = false
			break
		}
	}
	if soloSostegno {
		tipoMateria, err := s.tipoMateria(tx, lezione.LezioneMateriaID)
		if err != nil {
			return nil, err
		}
		if tipoMateria != anagmodel.MateriaSostegno {
			sostegnoID, err := s.materiaSostegno(tx)
			if err != nil {
				return nil, err
			}
			err = db.Model(&lezione).Updates(map[string]interface{}{
				"lezione_materia_id": sostegnoID,
				"lezione_argomento":  "",
				"lezione_attivita":   "",
			}).Error
			if err != nil {
				return nil, err
			}
			esito.LezioneSostegno = true
		}
	}
	return esito, nil
}

// lezioneDiRipiego cerca un'altra lezione dello stesso giorno, classe
// e materia firmata dal docente, su cui spostare i voti.
func (s *LezioniService) lezioneDiRipiego(tx *gorm.DB, lezione *model.LezioneModel, docenteID uuid.UUID) (*model.LezioneModel, error) {
	var altra model.LezioneModel
	err := s.conn(tx).
		Joins("JOIN firme ON firme.firma_lezione_id = lezioni.lezione_id").
		Where("lezioni.lezione_classe_id = ? AND lezioni.lezione_data = ? AND lezioni.lezione_materia_id = ?",
			lezione.LezioneClasseID, lezione.LezioneData, lezione.LezioneMateriaID).
		Where("lezioni.lezione_id <> ?", lezione.LezioneID).
		Where("firme.firma_docente_id = ?", docenteID).
		Order("lezioni.lezione_ora ASC").
		Take(&altra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &altra, nil
}

func (s *LezioniService) tipoMateria(tx *gorm.DB, materiaID uuid.UUID) (string, error) {
	var materia anagmodel.MateriaModel
	if err := s.conn(tx).Where("materia_id = ?", materiaID).Take(&materia).Error; err != nil {
		return "", err
	}
	return materia.MateriaTipo, nil
}

// materiaSostegno torna la materia segnaposto di tipo S.
func (s *LezioniService) materiaSostegno(tx *gorm.DB) (uuid.UUID, error) {
	var materia anagmodel.MateriaModel
	err := s.conn(tx).
		Where("materia_tipo = ?", anagmodel.MateriaSostegno).
		Order("materia_ordinamento ASC").
		Take(&materia).Error
	if err != nil {
		return uuid.Nil, err
	}
	return materia.MateriaID, nil
}

/* ===== Ore consecutive ===== */

// OreConsecutive torna l'ora di partenza e le ore successive ancora
// libere nella griglia del giorno, fino al primo slot occupato.
func (s *LezioniService) OreConsecutive(tx *gorm.DB, data time.Time, ora int, classeID, sedeID uuid.UUID) ([]int, error) {
	data = helper.TruncaData(data)

	scansioni, err := s.Calendario.OrarioInData(tx, data, sedeID)
	if err != nil {
		return nil, err
	}

	ore := []int{}
	for _, scansione := range scansioni {
		if scansione.ScansioneOrariaOra < ora {
			continue
		}
		if scansione.ScansioneOrariaOra > ora {
			lezione, _, err := s.Firme(tx, classeID, data, scansione.ScansioneOrariaOra)
			if err != nil {
				return nil, err
			}
			if lezione != nil {
				break
			}
			if len(ore) > 0 && scansione.ScansioneOrariaOra != ore[len(ore)-1]+1 {
				break
			}
		}
		ore = append(ore, scansione.ScansioneOrariaOra)
	}
	return ore, nil
}

func (s *LezioniService) ricalcola(tx *gorm.DB, data time.Time, lezione *model.LezioneModel) error {
	if err := s.Ricalcolo.RicalcolaOreLezione(tx, data, lezione); err != nil {
		return &regservice.ErroreRicalcolo{Err: err}
	}
	return nil
}
