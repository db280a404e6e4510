package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/features/school/calendario/model"
	configservice "scuoladigitale_backend/internals/features/school/configurazione/service"
	helper "scuoladigitale_backend/internals/helpers"
)

// Motivi restituiti da ControlloData quando il giorno non è di lezione.
const (
	MotivoFuoriAnno = "Giorno al di fuori dell'anno scolastico"
	MotivoRiposo    = "Giorno di riposo settimanale"
)

type CalendarioService struct {
	DB     *gorm.DB
	Config *configservice.ConfigurazioneService
}

func New(db *gorm.DB) *CalendarioService {
	return &CalendarioService{DB: db, Config: configservice.New(db)}
}

func (s *CalendarioService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// ControlloData dice se una data è di lezione. Ritorna nil per i giorni
// di lezione, altrimenti la descrizione della festività o il motivo.
// sedeID nil = controlla le festività comuni a tutte le sedi.
func (s *CalendarioService) ControlloData(tx *gorm.DB, data time.Time, sedeID *uuid.UUID) (*string, error) {
	data = helper.TruncaData(data)

	// festività da tabella (di sede o di istituto)
	var fest model.FestivitaModel
	q := s.conn(tx).
		Where("festivita_data = ? AND festivita_tipo = ?", data, model.FestivitaFestivo)
	if sedeID != nil {
		q = q.Where("festivita_sede_id IS NULL OR festivita_sede_id = ?", *sedeID)
	} else {
		q = q.Where("festivita_sede_id IS NULL")
	}
	err := q.Take(&fest).Error
	if err == nil {
		return &fest.FestivitaDescrizione, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// finestra dell'anno scolastico
	inizio, fine, err := s.AnnoScolastico(tx)
	if err != nil {
		return nil, err
	}
	if data.Before(inizio) || data.After(fine) {
		motivo := MotivoFuoriAnno
		return &motivo, nil
	}

	// riposo settimanale (default domenica)
	riposi, err := s.giorniRiposo(tx)
	if err != nil {
		return nil, err
	}
	if riposi[int(data.Weekday())] {
		motivo := MotivoRiposo
		return &motivo, nil
	}

	return nil, nil
}

// AnnoScolastico torna la finestra [inizio, fine] da configurazione.
func (s *CalendarioService) AnnoScolastico(tx *gorm.DB) (time.Time, time.Time, error) {
	rawInizio, err := s.Config.Get(tx, configservice.ParamAnnoInizio, "")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	rawFine, err := s.Config.Get(tx, configservice.ParamAnnoFine, "")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if rawInizio == "" || rawFine == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("anno scolastico non configurato")
	}
	inizio, err := helper.ParseData(rawInizio)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	fine, err := helper.ParseData(rawFine)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return inizio, fine, nil
}

func (s *CalendarioService) giorniRiposo(tx *gorm.DB) (map[int]bool, error) {
	raw, err := s.Config.Get(tx, configservice.ParamGiorniFestivi, "0")
	if err != nil {
		return nil, err
	}
	riposi := make(map[int]bool)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if g, err := strconv.Atoi(tok); err == nil && g >= 0 && g <= 6 {
			riposi[g] = true
		}
	}
	return riposi, nil
}

// GiornoSuccessivo torna il primo giorno di lezione dopo la data,
// nil se l'anno scolastico è terminato.
func (s *CalendarioService) GiornoSuccessivo(tx *gorm.DB, data time.Time, sedeID *uuid.UUID) (*time.Time, error) {
	return s.scorri(tx, data, sedeID, 1)
}

// GiornoPrecedente torna il primo giorno di lezione prima della data,
// nil se si è prima dell'inizio dell'anno.
func (s *CalendarioService) GiornoPrecedente(tx *gorm.DB, data time.Time, sedeID *uuid.UUID) (*time.Time, error) {
	return s.scorri(tx, data, sedeID, -1)
}

func (s *CalendarioService) scorri(tx *gorm.DB, data time.Time, sedeID *uuid.UUID, passo int) (*time.Time, error) {
	inizio, fine, err := s.AnnoScolastico(tx)
	if err != nil {
		return nil, err
	}
	giorno := helper.TruncaData(data)
	for {
		giorno = giorno.AddDate(0, 0, passo)
		if giorno.Before(inizio) || giorno.After(fine) {
			return nil, nil
		}
		motivo, err := s.ControlloData(tx, giorno, sedeID)
		if err != nil {
			return nil, err
		}
		if motivo == nil {
			g := giorno
			return &g, nil
		}
	}
}

// OrarioInData torna la griglia oraria del giorno per la sede,
// ordinata per ora.
func (s *CalendarioService) OrarioInData(tx *gorm.DB, data time.Time, sedeID uuid.UUID) ([]model.ScansioneOrariaModel, error) {
	data = helper.TruncaData(data)

	var orario model.OrarioModel
	err := s.conn(tx).
		Where("orario_sede_id = ? AND orario_inizio <= ? AND orario_fine >= ?", sedeID, data, data).
		Take(&orario).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var scansioni []model.ScansioneOrariaModel
	err = s.conn(tx).
		Where("scansione_oraria_orario_id = ? AND scansione_oraria_giorno = ?", orario.OrarioID, int(data.Weekday())).
		Order("scansione_oraria_ora ASC").
		Find(&scansioni).Error
	if err != nil {
		return nil, err
	}
	return scansioni, nil
}

// SeRitardoBreve dice se un'entrata in prima ora rientra nella
// tolleranza configurata (default 10 minuti).
func (s *CalendarioService) SeRitardoBreve(tx *gorm.DB, data time.Time, ora string, sedeID uuid.UUID) (bool, error) {
	scansioni, err := s.OrarioInData(tx, data, sedeID)
	if err != nil || len(scansioni) == 0 {
		return false, err
	}
	inizio, err := helper.MinutiOra(scansioni[0].ScansioneOrariaInizio)
	if err != nil {
		return false, err
	}
	entrata, err := helper.MinutiOra(ora)
	if err != nil {
		return false, err
	}
	tolleranza, err := s.Config.GetInt(tx, configservice.ParamRitardoBreve, 10)
	if err != nil {
		return false, err
	}
	return entrata > inizio && entrata <= inizio+tolleranza, nil
}

// ListaFestivi torna le date di festività ordinate, comuni + di sede.
func (s *CalendarioService) ListaFestivi(tx *gorm.DB, sedeID *uuid.UUID) ([]model.FestivitaModel, error) {
	var festivi []model.FestivitaModel
	q := s.conn(tx).Where("festivita_tipo = ?", model.FestivitaFestivo)
	if sedeID != nil {
		q = q.Where("festivita_sede_id IS NULL OR festivita_sede_id = ?", *sedeID)
	}
	err := q.Order("festivita_data ASC").Find(&festivi).Error
	return festivi, err
}
