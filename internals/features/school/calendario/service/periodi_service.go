package service

import (
	"time"

	"gorm.io/gorm"

	configservice "scuoladigitale_backend/internals/features/school/configurazione/service"
	helper "scuoladigitale_backend/internals/helpers"
)

// Periodo dell'anno scolastico (quadrimestre/trimestre).
type Periodo struct {
	Numero    int       `json:"numero"`
	Nome      string    `json:"nome"`
	Inizio    time.Time `json:"inizio"`
	Fine      time.Time `json:"fine"`
	Scrutinio string    `json:"scrutinio"` // P/S/F
}

// InfoPeriodi ricostruisce i periodi dalla configurazione. Il terzo
// periodo è opzionale: nome vuoto = anno diviso in due.
func (s *CalendarioService) InfoPeriodi(tx *gorm.DB) ([]Periodo, error) {
	annoInizio, annoFine, err := s.AnnoScolastico(tx)
	if err != nil {
		return nil, err
	}

	p1Nome, err := s.Config.Get(tx, configservice.ParamPeriodo1Nome, "Primo Quadrimestre")
	if err != nil {
		return nil, err
	}
	p1FineRaw, err := s.Config.Get(tx, configservice.ParamPeriodo1Fine, "")
	if err != nil {
		return nil, err
	}
	p2Nome, err := s.Config.Get(tx, configservice.ParamPeriodo2Nome, "Secondo Quadrimestre")
	if err != nil {
		return nil, err
	}
	p2FineRaw, err := s.Config.Get(tx, configservice.ParamPeriodo2Fine, "")
	if err != nil {
		return nil, err
	}
	p3Nome, err := s.Config.Get(tx, configservice.ParamPeriodo3Nome, "")
	if err != nil {
		return nil, err
	}

	p1Fine := annoFine
	if p1FineRaw != "" {
		if p1Fine, err = helper.ParseData(p1FineRaw); err != nil {
			return nil, err
		}
	}

	periodi := []Periodo{{
		Numero:    1,
		Nome:      p1Nome,
		Inizio:    annoInizio,
		Fine:      p1Fine,
		Scrutinio: "P",
	}}
	if p1Fine.Equal(annoFine) {
		periodi[0].Scrutinio = "F"
		return periodi, nil
	}

	p2Fine := annoFine
	p2Scrutinio := "F"
	if p3Nome != "" && p2FineRaw != "" {
		if p2Fine, err = helper.ParseData(p2FineRaw); err != nil {
			return nil, err
		}
		p2Scrutinio = "S"
	}
	periodi = append(periodi, Periodo{
		Numero:    2,
		Nome:      p2Nome,
		Inizio:    p1Fine.AddDate(0, 0, 1),
		Fine:      p2Fine,
		Scrutinio: p2Scrutinio,
	})

	if p3Nome != "" && !p2Fine.Equal(annoFine) {
		periodi = append(periodi, Periodo{
			Numero:    3,
			Nome:      p3Nome,
			Inizio:    p2Fine.AddDate(0, 0, 1),
			Fine:      annoFine,
			Scrutinio: "F",
		})
	}
	return periodi, nil
}

// Periodo torna il periodo che contiene la data, nil se fuori anno.
func (s *CalendarioService) Periodo(tx *gorm.DB, data time.Time) (*Periodo, error) {
	periodi, err := s.InfoPeriodi(tx)
	if err != nil {
		return nil, err
	}
	data = helper.TruncaData(data)
	for i := range periodi {
		if !data.Before(periodi[i].Inizio) && !data.After(periodi[i].Fine) {
			return &periodi[i], nil
		}
	}
	return nil, nil
}
