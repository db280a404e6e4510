package service

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"scuoladigitale_backend/internals/features/school/configurazione/model"
)

// Parametri usati dal motore del registro.
const (
	ParamAnnoInizio            = "anno_inizio"             // data "2006-01-02"
	ParamAnnoFine              = "anno_fine"               // data "2006-01-02"
	ParamGiorniFestivi         = "giorni_festivi_istituto" // giorni settimanali "0,6" (0=domenica)
	ParamNotaModifica          = "nota_modifica"           // minuti di finestra per modifica note
	ParamNotaProvvedimento     = "nota_provvedimento"      // C = anche coordinatore, D = anche autore
	ParamPeriodo1Nome          = "periodo1_nome"
	ParamPeriodo1Fine          = "periodo1_fine"
	ParamPeriodo2Nome          = "periodo2_nome"
	ParamPeriodo2Fine          = "periodo2_fine"
	ParamPeriodo3Nome          = "periodo3_nome"
	ParamRitardoBreve          = "ritardo_breve" // minuti di tolleranza in prima ora
)

type ConfigurazioneService struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *ConfigurazioneService {
	return &ConfigurazioneService{DB: db}
}

func (s *ConfigurazioneService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// Get legge un parametro; se assente torna il default dato.
func (s *ConfigurazioneService) Get(tx *gorm.DB, parametro, def string) (string, error) {
	var row model.ConfigurazioneModel
	err := s.conn(tx).
		Where("configurazione_parametro = ?", parametro).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return row.ConfigurazioneValore, nil
}

func (s *ConfigurazioneService) GetInt(tx *gorm.DB, parametro string, def int) (int, error) {
	raw, err := s.Get(tx, parametro, strconv.Itoa(def))
	if err != nil {
		return def, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return def, nil
	}
	return n, nil
}

// Set crea o aggiorna un parametro (usato da seed e test).
func (s *ConfigurazioneService) Set(tx *gorm.DB, parametro, valore string) error {
	row := model.ConfigurazioneModel{
		ConfigurazioneParametro: parametro,
		ConfigurazioneCategoria: "SCUOLA",
		ConfigurazioneValore:    valore,
	}
	res := s.conn(tx).
		Model(&model.ConfigurazioneModel{}).
		Where("configurazione_parametro = ?", parametro).
		Update("configurazione_valore", valore)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.conn(tx).Create(&row).Error
	}
	return nil
}
