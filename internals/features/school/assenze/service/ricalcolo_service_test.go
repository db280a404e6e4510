package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	anagmodel "scuoladigitale_backend/internals/features/school/anagrafica/model"
	anagservice "scuoladigitale_backend/internals/features/school/anagrafica/service"
	"scuoladigitale_backend/internals/features/school/assenze/model"
	calmodel "scuoladigitale_backend/internals/features/school/calendario/model"
	configmodel "scuoladigitale_backend/internals/features/school/configurazione/model"
	lezmodel "scuoladigitale_backend/internals/features/school/lezioni/model"
	valmodel "scuoladigitale_backend/internals/features/school/valutazioni/model"
	helper "scuoladigitale_backend/internals/helpers"
)

// aula prepara una classe con un alunno e la prima ora di oggi in
// griglia (08:00-09:00, durata 1).
type aula struct {
	db      *gorm.DB
	svc     *RicalcoloService
	classe  anagmodel.ClasseModel
	alunno  anagmodel.AlunnoModel
	lezione lezmodel.LezioneModel
}

func nuovaAula(t *testing.T) *aula {
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
		&configmodel.ConfigurazioneModel{},
		&calmodel.OrarioModel{},
		&calmodel.ScansioneOrariaModel{},
		&anagmodel.ClasseModel{},
		&anagmodel.AlunnoModel{},
		&anagmodel.CambioClasseModel{},
		&lezmodel.LezioneModel{},
		&lezmodel.FirmaModel{},
		&model.AssenzaModel{},
		&model.EntrataModel{},
		&model.UscitaModel{},
		&model.AssenzaLezioneModel{},
		&valmodel.ValutazioneModel{},
	)
	if err != nil {
		t.Fatalf("migrazione: %v", err)
	}

	a := &aula{db: db, svc: NewRicalcolo(db)}
	oggi := helper.Oggi()
	sedeID := uuid.New()

	a.classe = anagmodel.ClasseModel{ClasseAnno: 1, ClasseSezione: "A", ClasseSedeID: sedeID}
	if err := db.Create(&a.classe).Error; err != nil {
		t.Fatalf("seed classe: %v", err)
	}
	a.alunno = anagmodel.AlunnoModel{
		AlunnoNome:        "Sara",
		AlunnoCognome:     "Conti",
		AlunnoDataNascita: helper.Data(2011, time.May, 5),
		AlunnoClasseID:    &a.classe.ClasseID,
	}
	if err := db.Create(&a.alunno).Error; err != nil {
		t.Fatalf("seed alunno: %v", err)
	}

	orario := calmodel.OrarioModel{
		OrarioNome:   "Definitivo",
		OrarioSedeID: sedeID,
		OrarioInizio: oggi.AddDate(0, 0, -30),
		OrarioFine:   oggi.AddDate(0, 0, 30),
	}
	if err := db.Create(&orario).Error; err != nil {
		t.Fatalf("seed orario: %v", err)
	}
	scansione := calmodel.ScansioneOrariaModel{
		ScansioneOrariaOrarioID: orario.OrarioID,
		ScansioneOrariaGiorno:   int(oggi.Weekday()),
		ScansioneOrariaOra:      1,
		ScansioneOrariaInizio:   "08:00",
		ScansioneOrariaFine:     "09:00",
		ScansioneOrariaDurata:   1,
	}
	if err := db.Create(&scansione).Error; err != nil {
		t.Fatalf("seed scansione: %v", err)
	}

	a.lezione = lezmodel.LezioneModel{
		LezioneClasseID:  a.classe.ClasseID,
		LezioneData:      oggi,
		LezioneOra:       1,
		LezioneMateriaID: uuid.New(),
	}
	if err := db.Create(&a.lezione).Error; err != nil {
		t.Fatalf("seed lezione: %v", err)
	}
	return a
}

func (a *aula) oreDerivate(t *testing.T) []model.AssenzaLezioneModel {
	t.Helper()
	var righe []model.AssenzaLezioneModel
	if err := a.db.Find(&righe).Error; err != nil {
		t.Fatalf("lettura ore derivate: %v", err)
	}
	return righe
}

func TestRicalcoloAlunnoPresente(t *testing.T) {
	a := nuovaAula(t)

	if err := a.svc.RicalcolaOreLezione(nil, helper.Oggi(), &a.lezione); err != nil {
		t.Fatalf("RicalcolaOreLezione: %v", err)
	}
	if righe := a.oreDerivate(t); len(righe) != 0 {
		t.Fatalf("presente: attese 0 righe, trovate %d", len(righe))
	}
}

func TestRicalcoloAssenzaGiornaliera(t *testing.T) {
	a := nuovaAula(t)
	assenza := model.AssenzaModel{
		AssenzaAlunnoID:  a.alunno.AlunnoID,
		AssenzaData:      helper.Oggi(),
		AssenzaDocenteID: uuid.New(),
	}
	if err := a.db.Create(&assenza).Error; err != nil {
		t.Fatalf("seed assenza: %v", err)
	}

	if err := a.svc.RicalcolaOreLezione(nil, helper.Oggi(), &a.lezione); err != nil {
		t.Fatalf("RicalcolaOreLezione: %v", err)
	}
	righe := a.oreDerivate(t)
	if len(righe) != 1 {
		t.Fatalf("attesa 1 riga, trovate %d", len(righe))
	}
	if !righe[0].AssenzaLezioneOre.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("assenza giornaliera: attesa l'intera durata, trovato %s", righe[0].AssenzaLezioneOre)
	}
}

func TestRicalcoloEntrataInRitardo(t *testing.T) {
	a := nuovaAula(t)
	entrata := model.EntrataModel{
		EntrataAlunnoID:  a.alunno.AlunnoID,
		EntrataData:      helper.Oggi(),
		EntrataOra:       "08:40",
		EntrataDocenteID: uuid.New(),
	}
	if err := a.db.Create(&entrata).Error; err != nil {
		t.Fatalf("seed entrata: %v", err)
	}

	if err := a.svc.RicalcolaOreLezione(nil, helper.Oggi(), &a.lezione); err != nil {
		t.Fatalf("RicalcolaOreLezione: %v", err)
	}
	righe := a.oreDerivate(t)
	if len(righe) != 1 {
		t.Fatalf("attesa 1 riga, trovate %d", len(righe))
	}
	// 40 minuti su 60: quota 0.66, arrotondata per difetto a 0.5
	if !righe[0].AssenzaLezioneOre.Equal(decimal.NewFromFloat(0.5)) {
		t.Fatalf("attese 0.5 ore, trovato %s", righe[0].AssenzaLezioneOre)
	}
}

func TestRicalcoloSovrapposizioneNonSupera(t *testing.T) {
	a := nuovaAula(t)
	oggi := helper.Oggi()
	entrata := model.EntrataModel{
		EntrataAlunnoID:  a.alunno.AlunnoID,
		EntrataData:      oggi,
		EntrataOra:       "09:00",
		EntrataDocenteID: uuid.New(),
	}
	if err := a.db.Create(&entrata).Error; err != nil {
		t.Fatalf("seed entrata: %v", err)
	}
	uscita := model.UscitaModel{
		UscitaAlunnoID:  a.alunno.AlunnoID,
		UscitaData:      oggi,
		UscitaOra:       "08:00",
		UscitaDocenteID: uuid.New(),
	}
	if err := a.db.Create(&uscita).Error; err != nil {
		t.Fatalf("seed uscita: %v", err)
	}

	if err := a.svc.RicalcolaOreLezione(nil, oggi, &a.lezione); err != nil {
		t.Fatalf("RicalcolaOreLezione: %v", err)
	}
	righe := a.oreDerivate(t)
	if len(righe) != 1 {
		t.Fatalf("attesa 1 riga, trovate %d", len(righe))
	}
	// entrata e uscita coprono insieme più dell'ora: il tetto è la durata
	if !righe[0].AssenzaLezioneOre.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("attesa 1 ora al massimo, trovato %s", righe[0].AssenzaLezioneOre)
	}
}

func TestRicalcoloIdempotente(t *testing.T) {
	a := nuovaAula(t)
	assenza := model.AssenzaModel{
		AssenzaAlunnoID:  a.alunno.AlunnoID,
		AssenzaData:      helper.Oggi(),
		AssenzaDocenteID: uuid.New(),
	}
	if err := a.db.Create(&assenza).Error; err != nil {
		t.Fatalf("seed assenza: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := a.svc.RicalcolaOreLezione(nil, helper.Oggi(), &a.lezione); err != nil {
			t.Fatalf("ricalcolo %d: %v", i, err)
		}
	}
	if righe := a.oreDerivate(t); len(righe) != 1 {
		t.Fatalf("il ricalcolo ripetuto non deve duplicare: trovate %d righe", len(righe))
	}
}

func TestAppelloAllineaAssenzeEOre(t *testing.T) {
	a := nuovaAula(t)
	assenze := New(a.db)
	oggi := helper.Oggi()
	docenteID := uuid.New()

	if err := assenze.Appello(nil, oggi, a.classe.ClasseID, docenteID, []uuid.UUID{a.alunno.AlunnoID}); err != nil {
		t.Fatalf("appello con assente: %v", err)
	}
	var n int64
	a.db.Model(&model.AssenzaModel{}).Count(&n)
	if n != 1 {
		t.Fatalf("attesa 1 assenza, trovate %d", n)
	}
	if righe := a.oreDerivate(t); len(righe) != 1 {
		t.Fatalf("attesa 1 riga di ore, trovate %d", len(righe))
	}

	// rientro: l'appello successivo senza assenti ripulisce tutto
	if err := assenze.Appello(nil, oggi, a.classe.ClasseID, docenteID, nil); err != nil {
		t.Fatalf("appello senza assenti: %v", err)
	}
	a.db.Model(&model.AssenzaModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("l'assenza deve sparire, trovate %d", n)
	}
	if righe := a.oreDerivate(t); len(righe) != 0 {
		t.Fatalf("le ore derivate devono sparire, trovate %d", len(righe))
	}
}

func TestRegistraEntrataRitardoBreve(t *testing.T) {
	a := nuovaAula(t)
	assenze := New(a.db)
	oggi := helper.Oggi()

	err := assenze.RegistraEntrata(nil, oggi, a.alunno.AlunnoID, uuid.New(), a.classe.ClasseSedeID, "08:05", nil)
	if err != nil {
		t.Fatalf("RegistraEntrata: %v", err)
	}
	var entrata model.EntrataModel
	if err := a.db.Take(&entrata).Error; err != nil {
		t.Fatalf("lettura entrata: %v", err)
	}
	if !entrata.EntrataRitardoBreve {
		t.Fatal("5 minuti rientrano nella tolleranza: ritardo breve atteso")
	}
	// entro la tolleranza nessuna ora di assenza
	if righe := a.oreDerivate(t); len(righe) != 0 {
		t.Fatalf("ritardo breve: attese 0 righe, trovate %d", len(righe))
	}
}

func TestRicalcoloDopoTrasferimentoRetrodatato(t *testing.T) {
	a := nuovaAula(t)
	oggi := helper.Oggi()
	assenza := model.AssenzaModel{
		AssenzaAlunnoID:  a.alunno.AlunnoID,
		AssenzaData:      oggi,
		AssenzaDocenteID: uuid.New(),
	}
	if err := a.db.Create(&assenza).Error; err != nil {
		t.Fatalf("seed assenza: %v", err)
	}
	if err := a.svc.RicalcolaOreLezione(nil, oggi, &a.lezione); err != nil {
		t.Fatalf("RicalcolaOreLezione: %v", err)
	}
	if righe := a.oreDerivate(t); len(righe) != 1 {
		t.Fatalf("attesa 1 riga prima del trasferimento, trovate %d", len(righe))
	}

	// cambio sezione con effetto da oggi: la lezione di oggi appartiene
	// alla vecchia classe, le sue ore derivate non devono sopravvivere
	classeB := anagmodel.ClasseModel{ClasseAnno: 1, ClasseSezione: "B", ClasseSedeID: a.classe.ClasseSedeID}
	if err := a.db.Create(&classeB).Error; err != nil {
		t.Fatalf("seed classe B: %v", err)
	}
	anagrafica := anagservice.New(a.db)
	if err := anagrafica.TrasferisciAlunno(nil, a.alunno.AlunnoID, oggi, &classeB.ClasseID, anagmodel.CambioSezione); err != nil {
		t.Fatalf("TrasferisciAlunno: %v", err)
	}

	if err := a.svc.RicalcolaDopoTrasferimento(nil, a.alunno.AlunnoID, oggi); err != nil {
		t.Fatalf("RicalcolaDopoTrasferimento: %v", err)
	}
	if righe := a.oreDerivate(t); len(righe) != 0 {
		t.Fatalf("dopo il trasferimento attese 0 righe, trovate %d", len(righe))
	}
}
