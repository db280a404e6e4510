package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/constants"
	anagmodel "scuoladigitale_backend/internals/features/school/anagrafica/model"
	anagservice "scuoladigitale_backend/internals/features/school/anagrafica/service"
	calservice "scuoladigitale_backend/internals/features/school/calendario/service"
	configservice "scuoladigitale_backend/internals/features/school/configurazione/service"
	lezmodel "scuoladigitale_backend/internals/features/school/lezioni/model"
	notemodel "scuoladigitale_backend/internals/features/school/note/model"
	"scuoladigitale_backend/internals/features/school/registro/model"
	helper "scuoladigitale_backend/internals/helpers"
)

// Azioni sottoposte al motore di autorizzazione.
const (
	AzioneAggiungi      = "aggiungi"
	AzioneModifica      = "modifica"
	AzioneCancella      = "cancella"
	AzioneAnnulla       = "annulla"
	AzioneProvvedimento = "provvedimento"
)

// RegistroService è il motore di coerenza e autorizzazione: ogni
// decisione è funzione pura di (azione, data, capacità, stato db).
type RegistroService struct {
	DB         *gorm.DB
	Calendario *calservice.CalendarioService
	Anagrafica *anagservice.AnagraficaService
	Config     *configservice.ConfigurazioneService
}

func New(db *gorm.DB) *RegistroService {
	return &RegistroService{
		DB:         db,
		Calendario: calservice.New(db),
		Anagrafica: anagservice.New(db),
		Config:     configservice.New(db),
	}
}

func (s *RegistroService) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

// SedeDiClasse risolve la sede della classe.
func (s *RegistroService) SedeDiClasse(tx *gorm.DB, classeID uuid.UUID) (uuid.UUID, error) {
	var classe anagmodel.ClasseModel
	if err := s.conn(tx).Where("classe_id = ?", classeID).Take(&classe).Error; err != nil {
		return uuid.Nil, err
	}
	return classe.ClasseSedeID, nil
}

// festivo dice se la data non è giorno di lezione per la sede della
// classe: festività, riposo settimanale o fuori anno scolastico.
// classeID nil = solo calendario di istituto.
func (s *RegistroService) festivo(tx *gorm.DB, data time.Time, classeID *uuid.UUID) (bool, error) {
	var sede *uuid.UUID
	if classeID != nil {
		sedeID, err := s.SedeDiClasse(tx, *classeID)
		if err != nil {
			return false, err
		}
		sede = &sedeID
	}
	motivo, err := s.Calendario.ControlloData(tx, data, sede)
	if err != nil {
		return false, err
	}
	return motivo != nil, nil
}

/* ===== Blocco scrutinio ===== */

// BloccoScrutinio: il registro del periodo è congelato quando lo
// scrutinio corrispondente è stato aperto. classeID nil = blocco se
// un qualsiasi scrutinio del periodo è aperto.
func (s *RegistroService) BloccoScrutinio(tx *gorm.DB, data time.Time, classeID *uuid.UUID) (bool, error) {
	periodo, err := s.Calendario.Periodo(tx, data)
	if err != nil || periodo == nil {
		return false, err
	}
	q := s.conn(tx).
		Model(&model.ScrutinioModel{}).
		Where("scrutinio_periodo = ? AND scrutinio_stato <> ?", periodo.Scrutinio, model.ScrutinioNonAperto)
	if classeID != nil {
		q = q.Where("scrutinio_classe_id = ?", *classeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* ===== Lezioni e firme ===== */

// AzioneLezione decide se il docente può firmare, modificare o
// rimuovere la propria firma su una lezione della classe alla data.
func (s *RegistroService) AzioneLezione(tx *gorm.DB, azione string, data time.Time, cap Capacita, classeID uuid.UUID, firme []lezmodel.FirmaModel) (Esito, error) {
	data = helper.TruncaData(data)

	// il calendario viene prima di ogni altro controllo
	festivo, err := s.festivo(tx, data, &classeID)
	if err != nil {
		return Esito{}, err
	}
	if festivo {
		return Negato(MotivoFestivo), nil
	}
	blocco, err := s.BloccoScrutinio(tx, data, &classeID)
	if err != nil {
		return Esito{}, err
	}
	if blocco {
		return Negato(MotivoBloccoScrutinio), nil
	}

	switch azione {
	case AzioneAggiungi:
		if data.After(helper.Oggi()) {
			return Negato(MotivoDataFutura), nil
		}
		for _, f := range firme {
			if f.FirmaDocenteID == cap.DocenteID {
				return Negato(MotivoGiaFirmato), nil
			}
		}
		return Consentito(), nil

	case AzioneModifica, AzioneCancella:
		if len(firme) == 0 {
			return Consentito(), nil
		}
		for _, f := range firme {
			if f.FirmaDocenteID == cap.DocenteID {
				return Consentito(), nil
			}
		}
		if cap.Staff() {
			return Consentito(), nil
		}
		return Negato(MotivoNonFirmatario), nil
	}
	return Negato(MotivoNonFirmatario), nil
}

/* ===== Annotazioni ===== */

// AzioneAnnotazione: l'inserimento è libero (anche su date future);
// modifica e cancellazione spettano all'autore, con due eccezioni:
// staff su annotazioni di staff (solo cancellazione) e divieto
// assoluto quando l'avviso collegato è di un altro docente.
func (s *RegistroService) AzioneAnnotazione(tx *gorm.DB, azione string, cap Capacita, annotazione *notemodel.AnnotazioneModel) (Esito, error) {
	if azione == AzioneAggiungi {
		return Consentito(), nil
	}
	if annotazione == nil {
		return Negato(MotivoNonAutore), nil
	}

	if annotazione.AnnotazioneAvvisoID != nil {
		var avviso notemodel.AvvisoModel
		err := s.conn(tx).Where("avviso_id = ?", *annotazione.AnnotazioneAvvisoID).Take(&avviso).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Esito{}, err
		}
		if err == nil && avviso.AvvisoDocenteID != annotazione.AnnotazioneDocenteID {
			return Negato(MotivoAnnotazioneConAvviso), nil
		}
	}

	if annotazione.AnnotazioneDocenteID == cap.DocenteID {
		return Consentito(), nil
	}

	if azione == AzioneCancella && cap.Staff() {
		var autore anagmodel.DocenteModel
		if err := s.conn(tx).Where("docente_id = ?", annotazione.AnnotazioneDocenteID).Take(&autore).Error; err != nil {
			return Esito{}, err
		}
		if staffRuolo(autore.DocenteRuolo) {
			return Consentito(), nil
		}
	}
	return Negato(MotivoNonAutore), nil
}

/* ===== Note disciplinari ===== */

// AzioneNota governa il ciclo di vita della nota: inserimento non nel
// futuro, modifica/cancellazione dell'autore entro la finestra
// `nota_modifica`, annullamento oltre la finestra, provvedimento allo
// staff (o coordinatore/autore secondo configurazione).
func (s *RegistroService) AzioneNota(tx *gorm.DB, azione string, cap Capacita, nota *notemodel.NotaModel) (Esito, error) {
	// calendario prima di tutto: niente note nei giorni senza lezione
	// (annullamento e provvedimento sono atti amministrativi successivi)
	if nota != nil && (azione == AzioneAggiungi || azione == AzioneModifica || azione == AzioneCancella) {
		festivo, err := s.festivo(tx, helper.TruncaData(nota.NotaData), &nota.NotaClasseID)
		if err != nil {
			return Esito{}, err
		}
		if festivo {
			return Negato(MotivoFestivo), nil
		}
	}

	switch azione {
	case AzioneAggiungi:
		if nota != nil && helper.TruncaData(nota.NotaData).After(helper.Oggi()) {
			return Negato(MotivoDataFutura), nil
		}
		return Consentito(), nil

	case AzioneModifica, AzioneCancella:
		if nota == nil {
			return Negato(MotivoNonAutore), nil
		}
		if nota.NotaAnnullata != nil {
			return Negato(MotivoFinestraScaduta), nil
		}
		if nota.NotaDocenteProvvedimentoID != nil && *nota.NotaDocenteProvvedimentoID != cap.DocenteID {
			return Negato(MotivoProvvedimentoAltrui), nil
		}
		if nota.NotaDocenteID != cap.DocenteID {
			return Negato(MotivoNonAutore), nil
		}
		finestra, err := s.Config.GetInt(tx, configservice.ParamNotaModifica, 30)
		if err != nil {
			return Esito{}, err
		}
		if finestra > 0 && time.Since(nota.NotaUpdatedAt) > time.Duration(finestra)*time.Minute {
			return Negato(MotivoFinestraScaduta), nil
		}
		return Consentito(), nil

	case AzioneAnnulla:
		if nota == nil || nota.NotaAnnullata != nil {
			return Negato(MotivoNonAutore), nil
		}
		if nota.NotaDocenteID == cap.DocenteID {
			return Consentito(), nil
		}
		if nota.NotaDocenteProvvedimentoID != nil && *nota.NotaDocenteProvvedimentoID == cap.DocenteID {
			return Consentito(), nil
		}
		if cap.Staff() {
			return Consentito(), nil
		}
		return Negato(MotivoNonAutore), nil

	case AzioneProvvedimento:
		if cap.Staff() {
			return Consentito(), nil
		}
		modo, err := s.Config.Get(tx, configservice.ParamNotaProvvedimento, "")
		if err != nil {
			return Esito{}, err
		}
		if nota != nil && (modo == "C" || modo == "D") {
			var classe anagmodel.ClasseModel
			if err := s.conn(tx).Where("classe_id = ?", nota.NotaClasseID).Take(&classe).Error; err != nil {
				return Esito{}, err
			}
			if classe.ClasseCoordinatoreID != nil && *classe.ClasseCoordinatoreID == cap.DocenteID {
				return Consentito(), nil
			}
		}
		if nota != nil && modo == "D" && nota.NotaDocenteID == cap.DocenteID {
			return Consentito(), nil
		}
		return Negato(MotivoNonStaff), nil
	}
	return Negato(MotivoNonAutore), nil
}

/* ===== Valutazioni ===== */

// AzioneVoti: voto non nel futuro, alunno nella classe alla data,
// cattedra attiva non di sostegno, lezione presente per la materia.
func (s *RegistroService) AzioneVoti(tx *gorm.DB, data time.Time, cap Capacita, classeID, materiaID uuid.UUID, alunnoID *uuid.UUID) (Esito, error) {
	data = helper.TruncaData(data)

	festivo, err := s.festivo(tx, data, &classeID)
	if err != nil {
		return Esito{}, err
	}
	if festivo {
		return Negato(MotivoFestivo), nil
	}
	blocco, err := s.BloccoScrutinio(tx, data, &classeID)
	if err != nil {
		return Esito{}, err
	}
	if blocco {
		return Negato(MotivoBloccoScrutinio), nil
	}
	if data.After(helper.Oggi()) {
		return Negato(MotivoDataFutura), nil
	}

	if alunnoID != nil {
		classe, err := s.Anagrafica.ClasseInData(tx, data, *alunnoID)
		if err != nil {
			return Esito{}, err
		}
		if classe == nil || *classe != classeID {
			return Negato(MotivoClasseDiversa), nil
		}
	}

	esiste, err := s.Anagrafica.EsisteCattedra(tx, cap.DocenteID, classeID, materiaID)
	if err != nil {
		return Esito{}, err
	}
	if !esiste {
		return Negato(MotivoNessunaCattedra), nil
	}

	var n int64
	err = s.conn(tx).
		Model(&lezmodel.LezioneModel{}).
		Where("lezione_classe_id = ? AND lezione_data = ? AND lezione_materia_id = ?", classeID, data, materiaID).
		Count(&n).Error
	if err != nil {
		return Esito{}, err
	}
	if n == 0 {
		return Negato(MotivoLezioneInesistente), nil
	}
	return Consentito(), nil
}

/* ===== Osservazioni ===== */

// AzioneOsservazione: il registro personale appartiene al titolare
// della cattedra, e anche qui vale il calendario.
func (s *RegistroService) AzioneOsservazione(tx *gorm.DB, azione string, data time.Time, cap Capacita, cattedra *anagmodel.CattedraModel) (Esito, error) {
	if cattedra == nil || cattedra.CattedraDocenteID != cap.DocenteID || !cattedra.CattedraAttiva {
		return Negato(MotivoNessunaCattedra), nil
	}
	data = helper.TruncaData(data)
	festivo, err := s.festivo(tx, data, &cattedra.CattedraClasseID)
	if err != nil {
		return Esito{}, err
	}
	if festivo {
		return Negato(MotivoFestivo), nil
	}
	if azione == AzioneAggiungi && data.After(helper.Oggi()) {
		return Negato(MotivoDataFutura), nil
	}
	return Consentito(), nil
}

/* ===== Assenze ===== */

// AzioneAssenze: appello e giustificazioni non nel futuro, alunno
// nella classe alla data, docente della classe (o staff).
func (s *RegistroService) AzioneAssenze(tx *gorm.DB, data time.Time, cap Capacita, alunnoID, classeID *uuid.UUID) (Esito, error) {
	data = helper.TruncaData(data)

	festivo, err := s.festivo(tx, data, classeID)
	if err != nil {
		return Esito{}, err
	}
	if festivo {
		return Negato(MotivoFestivo), nil
	}
	if data.After(helper.Oggi()) {
		return Negato(MotivoDataFutura), nil
	}
	blocco, err := s.BloccoScrutinio(tx, data, classeID)
	if err != nil {
		return Esito{}, err
	}
	if blocco {
		return Negato(MotivoBloccoScrutinio), nil
	}

	if alunnoID != nil && classeID != nil {
		classe, err := s.Anagrafica.ClasseInData(tx, data, *alunnoID)
		if err != nil {
			return Esito{}, err
		}
		if classe == nil || *classe != *classeID {
			return Negato(MotivoClasseDiversa), nil
		}
	}

	if classeID != nil && !cap.Staff() {
		abilitato, err := s.Anagrafica.HaCattedraInClasse(tx, cap.DocenteID, *classeID)
		if err != nil {
			return Esito{}, err
		}
		if !abilitato {
			return Negato(MotivoNessunaCattedra), nil
		}
	}
	return Consentito(), nil
}

func staffRuolo(ruolo string) bool {
	for _, r := range constants.StaffAndAbove {
		if r == ruolo {
			return true
		}
	}
	return false
}
