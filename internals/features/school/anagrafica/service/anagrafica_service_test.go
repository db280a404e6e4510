package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scuoladigitale_backend/internals/features/school/anagrafica/model"
	assenzemodel "scuoladigitale_backend/internals/features/school/assenze/model"
	lezmodel "scuoladigitale_backend/internals/features/school/lezioni/model"
	valmodel "scuoladigitale_backend/internals/features/school/valutazioni/model"
	helper "scuoladigitale_backend/internals/helpers"
)

type segreteria struct {
	db      *gorm.DB
	svc     *AnagraficaService
	terzaA  model.ClasseModel
	quartaB model.ClasseModel
}

func nuovaSegreteria(t *testing.T) *segreteria {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("apertura db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("pool db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.ClasseModel{},
		&model.AlunnoModel{},
		&model.CambioClasseModel{},
		&model.MateriaModel{},
		&model.CattedraModel{},
		&lezmodel.LezioneModel{},
		&valmodel.ValutazioneModel{},
		&assenzemodel.AssenzaModel{},
	)
	if err != nil {
		t.Fatalf("migrazione: %v", err)
	}

	s := &segreteria{db: db, svc: New(db)}
	sedeID := uuid.New()
	s.terzaA = model.ClasseModel{ClasseAnno: 3, ClasseSezione: "A", ClasseSedeID: sedeID}
	s.quartaB = model.ClasseModel{ClasseAnno: 4, ClasseSezione: "B", ClasseSedeID: sedeID}
	for _, classe := range []*model.ClasseModel{&s.terzaA, &s.quartaB} {
		if err := db.Create(classe).Error; err != nil {
			t.Fatalf("seed classe: %v", err)
		}
	}
	return s
}

func (s *segreteria) iscrivi(t *testing.T, nome, cognome string, classeID uuid.UUID) model.AlunnoModel {
	t.Helper()
	alunno := model.AlunnoModel{
		AlunnoNome:        nome,
		AlunnoCognome:     cognome,
		AlunnoDataNascita: helper.Data(2010, time.September, 9),
		AlunnoClasseID:    &classeID,
	}
	if err := s.db.Create(&alunno).Error; err != nil {
		t.Fatalf("seed alunno: %v", err)
	}
	return alunno
}

func TestClasseInDataSenzaCambi(t *testing.T) {
	s := nuovaSegreteria(t)
	alunno := s.iscrivi(t, "Paolo", "Vitale", s.terzaA.ClasseID)

	for _, data := range []time.Time{helper.Oggi(), helper.Oggi().AddDate(0, 0, -30)} {
		classeID, err := s.svc.ClasseInData(nil, data, alunno.AlunnoID)
		if err != nil {
			t.Fatalf("ClasseInData %s: %v", helper.DataStr(data), err)
		}
		if classeID == nil || *classeID != s.terzaA.ClasseID {
			t.Fatalf("attesa la classe corrente, trovato %v", classeID)
		}
	}
}

func TestClasseInDataAttraversoCambio(t *testing.T) {
	s := nuovaSegreteria(t)
	alunno := s.iscrivi(t, "Paolo", "Vitale", s.quartaB.ClasseID)
	oggi := helper.Oggi()

	// fino a dieci giorni fa era in 3A
	cambio := model.CambioClasseModel{
		CambioClasseAlunnoID: alunno.AlunnoID,
		CambioClasseInizio:   oggi.AddDate(0, 0, -90),
		CambioClasseFine:     oggi.AddDate(0, 0, -10),
		CambioClasseClasseID: &s.terzaA.ClasseID,
		CambioClasseTipo:     model.CambioSezione,
	}
	if err := s.db.Create(&cambio).Error; err != nil {
		t.Fatalf("seed cambio: %v", err)
	}

	classeID, err := s.svc.ClasseInData(nil, oggi.AddDate(0, 0, -20), alunno.AlunnoID)
	if err != nil {
		t.Fatalf("ClasseInData nella finestra: %v", err)
	}
	if classeID == nil || *classeID != s.terzaA.ClasseID {
		t.Fatalf("nella finestra l'alunno era in 3A, trovato %v", classeID)
	}

	classeID, err = s.svc.ClasseInData(nil, oggi.AddDate(0, 0, -5), alunno.AlunnoID)
	if err != nil {
		t.Fatalf("ClasseInData dopo la finestra: %v", err)
	}
	if classeID == nil || *classeID != s.quartaB.ClasseID {
		t.Fatalf("dopo la finestra vale la classe corrente, trovato %v", classeID)
	}
}

func TestAlunniInDataRispettaLeFinestre(t *testing.T) {
	s := nuovaSegreteria(t)
	stabile := s.iscrivi(t, "Anna", "Riva", s.terzaA.ClasseID)
	trasferito := s.iscrivi(t, "Luca", "Sala", s.quartaB.ClasseID)
	oggi := helper.Oggi()

	cambio := model.CambioClasseModel{
		CambioClasseAlunnoID: trasferito.AlunnoID,
		CambioClasseInizio:   oggi.AddDate(0, 0, -90),
		CambioClasseFine:     oggi.AddDate(0, 0, -10),
		CambioClasseClasseID: &s.terzaA.ClasseID,
		CambioClasseTipo:     model.CambioSezione,
	}
	if err := s.db.Create(&cambio).Error; err != nil {
		t.Fatalf("seed cambio: %v", err)
	}

	// oggi in 3A c'è solo chi non si è mai mosso
	alunni, err := s.svc.AlunniInData(nil, oggi, s.terzaA.ClasseID)
	if err != nil {
		t.Fatalf("AlunniInData oggi: %v", err)
	}
	if len(alunni) != 1 || alunni[0].AlunnoID != stabile.AlunnoID {
		t.Fatalf("oggi attesa solo Riva, trovati %d", len(alunni))
	}

	// venti giorni fa c'erano entrambi
	alunni, err = s.svc.AlunniInData(nil, oggi.AddDate(0, 0, -20), s.terzaA.ClasseID)
	if err != nil {
		t.Fatalf("AlunniInData passata: %v", err)
	}
	if len(alunni) != 2 {
		t.Fatalf("nella finestra attesi 2 alunni, trovati %d", len(alunni))
	}

	// e in 4B in quella data il trasferito non c'era ancora
	alunni, err = s.svc.AlunniInData(nil, oggi.AddDate(0, 0, -20), s.quartaB.ClasseID)
	if err != nil {
		t.Fatalf("AlunniInData 4B: %v", err)
	}
	if len(alunni) != 0 {
		t.Fatalf("in 4B attesi 0 alunni, trovati %d", len(alunni))
	}
}

func TestPresentiInDataEscludeAssenti(t *testing.T) {
	s := nuovaSegreteria(t)
	presente := s.iscrivi(t, "Anna", "Riva", s.terzaA.ClasseID)
	assente := s.iscrivi(t, "Luca", "Sala", s.terzaA.ClasseID)
	oggi := helper.Oggi()

	assenza := assenzemodel.AssenzaModel{
		AssenzaAlunnoID:  assente.AlunnoID,
		AssenzaData:      oggi,
		AssenzaDocenteID: uuid.New(),
	}
	if err := s.db.Create(&assenza).Error; err != nil {
		t.Fatalf("seed assenza: %v", err)
	}

	presenti, err := s.svc.PresentiInData(nil, oggi, s.terzaA.ClasseID)
	if err != nil {
		t.Fatalf("PresentiInData: %v", err)
	}
	if len(presenti) != 1 || presenti[0].AlunnoID != presente.AlunnoID {
		t.Fatalf("attesa solo Riva presente, trovati %d", len(presenti))
	}
}

func TestTrasferisciAlunno(t *testing.T) {
	s := nuovaSegreteria(t)
	alunno := s.iscrivi(t, "Paolo", "Vitale", s.terzaA.ClasseID)
	oggi := helper.Oggi()

	err := s.svc.TrasferisciAlunno(nil, alunno.AlunnoID, oggi, &s.quartaB.ClasseID, model.CambioSezione)
	if err != nil {
		t.Fatalf("TrasferisciAlunno: %v", err)
	}

	var salvato model.AlunnoModel
	if err := s.db.Take(&salvato, "alunno_id = ?", alunno.AlunnoID).Error; err != nil {
		t.Fatalf("lettura alunno: %v", err)
	}
	if salvato.AlunnoClasseID == nil || *salvato.AlunnoClasseID != s.quartaB.ClasseID {
		t.Fatalf("l'alunno deve risultare in 4B, trovato %v", salvato.AlunnoClasseID)
	}

	var cambio model.CambioClasseModel
	if err := s.db.Take(&cambio, "cambio_classe_alunno_id = ?", alunno.AlunnoID).Error; err != nil {
		t.Fatalf("lettura cambio: %v", err)
	}
	if cambio.CambioClasseClasseID == nil || *cambio.CambioClasseClasseID != s.terzaA.ClasseID {
		t.Fatal("la finestra deve ricordare la vecchia classe")
	}
	if !cambio.CambioClasseFine.Equal(oggi.AddDate(0, 0, -1)) {
		t.Fatalf("la finestra chiude il giorno prima, trovato %s", helper.DataStr(cambio.CambioClasseFine))
	}
	if cambio.CambioClasseTipo != model.CambioSezione {
		t.Fatalf("tipo cambio atteso %q, trovato %q", model.CambioSezione, cambio.CambioClasseTipo)
	}
}

func TestTrasferisciAlunnoFuoriDallaScuola(t *testing.T) {
	s := nuovaSegreteria(t)
	alunno := s.iscrivi(t, "Paolo", "Vitale", s.terzaA.ClasseID)

	err := s.svc.TrasferisciAlunno(nil, alunno.AlunnoID, helper.Oggi(), nil, model.CambioTrasferimento)
	if err != nil {
		t.Fatalf("TrasferisciAlunno: %v", err)
	}
	var salvato model.AlunnoModel
	if err := s.db.Take(&salvato, "alunno_id = ?", alunno.AlunnoID).Error; err != nil {
		t.Fatalf("lettura alunno: %v", err)
	}
	if salvato.AlunnoClasseID != nil {
		t.Fatal("l'alunno uscito dalla scuola non ha classe")
	}
}

func TestTrasferisciAlunnoConValutazioni(t *testing.T) {
	s := nuovaSegreteria(t)
	alunno := s.iscrivi(t, "Paolo", "Vitale", s.terzaA.ClasseID)
	oggi := helper.Oggi()

	lezione := lezmodel.LezioneModel{
		LezioneClasseID:  s.terzaA.ClasseID,
		LezioneData:      oggi,
		LezioneOra:       1,
		LezioneMateriaID: uuid.New(),
	}
	if err := s.db.Create(&lezione).Error; err != nil {
		t.Fatalf("seed lezione: %v", err)
	}
	voto := 6.5
	valutazione := valmodel.ValutazioneModel{
		ValutazioneLezioneID: lezione.LezioneID,
		ValutazioneDocenteID: uuid.New(),
		ValutazioneAlunnoID:  alunno.AlunnoID,
		ValutazioneMateriaID: lezione.LezioneMateriaID,
		ValutazioneTipo:      "O",
		ValutazioneVoto:      &voto,
	}
	if err := s.db.Create(&valutazione).Error; err != nil {
		t.Fatalf("seed valutazione: %v", err)
	}

	err := s.svc.TrasferisciAlunno(nil, alunno.AlunnoID, oggi, &s.quartaB.ClasseID, model.CambioSezione)
	if !errors.Is(err, ErrValutazioniPresenti) {
		t.Fatalf("atteso ErrValutazioniPresenti, trovato %v", err)
	}

	// da domani la valutazione di oggi resta alle spalle
	err = s.svc.TrasferisciAlunno(nil, alunno.AlunnoID, oggi.AddDate(0, 0, 1), &s.quartaB.ClasseID, model.CambioSezione)
	if err != nil {
		t.Fatalf("trasferimento dal giorno dopo: %v", err)
	}
}

func TestCreaCattedraDuplicata(t *testing.T) {
	s := nuovaSegreteria(t)
	materia := model.MateriaModel{
		MateriaNome:      "Scienze",
		MateriaNomeBreve: "SCI",
		MateriaTipo:      model.MateriaNormale,
	}
	if err := s.db.Create(&materia).Error; err != nil {
		t.Fatalf("seed materia: %v", err)
	}
	docenteID := uuid.New()

	prima := model.CattedraModel{
		CattedraDocenteID: docenteID,
		CattedraClasseID:  s.terzaA.ClasseID,
		CattedraMateriaID: materia.MateriaID,
		CattedraTipo:      model.CattedraNormale,
		CattedraAttiva:    true,
	}
	if err := s.svc.CreaCattedra(nil, &prima); err != nil {
		t.Fatalf("CreaCattedra: %v", err)
	}

	doppione := model.CattedraModel{
		CattedraDocenteID: docenteID,
		CattedraClasseID:  s.terzaA.ClasseID,
		CattedraMateriaID: materia.MateriaID,
		CattedraTipo:      model.CattedraNormale,
		CattedraAttiva:    true,
	}
	if err := s.svc.CreaCattedra(nil, &doppione); !errors.Is(err, ErrCattedraDuplicata) {
		t.Fatalf("atteso ErrCattedraDuplicata, trovato %v", err)
	}

	// altra classe: nessun conflitto
	altra := model.CattedraModel{
		CattedraDocenteID: docenteID,
		CattedraClasseID:  s.quartaB.ClasseID,
		CattedraMateriaID: materia.MateriaID,
		CattedraTipo:      model.CattedraNormale,
		CattedraAttiva:    true,
	}
	if err := s.svc.CreaCattedra(nil, &altra); err != nil {
		t.Fatalf("CreaCattedra altra classe: %v", err)
	}
}

func TestEsisteCattedraIgnoraSostegno(t *testing.T) {
	s := nuovaSegreteria(t)
	sostegno := model.MateriaModel{
		MateriaNome:      "Sostegno",
		MateriaNomeBreve: "SOS",
		MateriaTipo:      model.MateriaSostegno,
	}
	if err := s.db.Create(&sostegno).Error; err != nil {
		t.Fatalf("seed materia: %v", err)
	}
	docenteID := uuid.New()
	cattedra := model.CattedraModel{
		CattedraDocenteID: docenteID,
		CattedraClasseID:  s.terzaA.ClasseID,
		CattedraMateriaID: sostegno.MateriaID,
		CattedraTipo:      model.CattedraNormale,
		CattedraAttiva:    true,
	}
	if err := s.svc.CreaCattedra(nil, &cattedra); err != nil {
		t.Fatalf("CreaCattedra: %v", err)
	}

	esiste, err := s.svc.EsisteCattedra(nil, docenteID, s.terzaA.ClasseID, sostegno.MateriaID)
	if err != nil {
		t.Fatalf("EsisteCattedra: %v", err)
	}
	if esiste {
		t.Fatal("la cattedra di sostegno non vale come cattedra di materia")
	}

	abilitato, err := s.svc.HaCattedraInClasse(nil, docenteID, s.terzaA.ClasseID)
	if err != nil {
		t.Fatalf("HaCattedraInClasse: %v", err)
	}
	if !abilitato {
		t.Fatal("la cattedra di sostegno abilita comunque sulla classe")
	}
}
