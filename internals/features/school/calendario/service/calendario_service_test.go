package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scuoladigitale_backend/internals/features/school/calendario/model"
	configmodel "scuoladigitale_backend/internals/features/school/configurazione/model"
	configservice "scuoladigitale_backend/internals/features/school/configurazione/service"
	helper "scuoladigitale_backend/internals/helpers"
)

func testDB(t *testing.T) *gorm.DB {
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
		&model.FestivitaModel{},
		&model.OrarioModel{},
		&model.ScansioneOrariaModel{},
	)
	if err != nil {
		t.Fatalf("migrazione: %v", err)
	}
	return db
}

// configuraAnno apre una finestra d'anno larga attorno a oggi e azzera
// i giorni di riposo settimanale, così i test non dipendono dal giorno
// in cui girano.
func configuraAnno(t *testing.T, db *gorm.DB) (time.Time, time.Time) {
	t.Helper()
	cfg := configservice.New(db)
	inizio := helper.Oggi().AddDate(0, 0, -200)
	fine := helper.Oggi().AddDate(0, 0, 200)
	for parametro, valore := range map[string]string{
		configservice.ParamAnnoInizio:    helper.DataStr(inizio),
		configservice.ParamAnnoFine:      helper.DataStr(fine),
		configservice.ParamGiorniFestivi: "",
	} {
		if err := cfg.Set(nil, parametro, valore); err != nil {
			t.Fatalf("set %s: %v", parametro, err)
		}
	}
	return inizio, fine
}

func TestControlloDataFestivita(t *testing.T) {
	db := testDB(t)
	configuraAnno(t, db)
	svc := New(db)

	oggi := helper.Oggi()
	fest := model.FestivitaModel{
		FestivitaData:        oggi,
		FestivitaDescrizione: "Festa del Santo Patrono",
		FestivitaTipo:        model.FestivitaFestivo,
	}
	if err := db.Create(&fest).Error; err != nil {
		t.Fatalf("seed festività: %v", err)
	}

	motivo, err := svc.ControlloData(nil, oggi, nil)
	if err != nil {
		t.Fatalf("ControlloData: %v", err)
	}
	if motivo == nil || *motivo != "Festa del Santo Patrono" {
		t.Fatalf("atteso il motivo della festività, trovato %v", motivo)
	}

	motivo, err = svc.ControlloData(nil, oggi.AddDate(0, 0, 1), nil)
	if err != nil {
		t.Fatalf("ControlloData: %v", err)
	}
	if motivo != nil {
		t.Fatalf("domani deve essere giorno di lezione, trovato %q", *motivo)
	}
}

func TestControlloDataFestivitaDiSede(t *testing.T) {
	db := testDB(t)
	configuraAnno(t, db)
	svc := New(db)

	oggi := helper.Oggi()
	sedeA := uuid.New()
	sedeB := uuid.New()
	fest := model.FestivitaModel{
		FestivitaSedeID:      &sedeA,
		FestivitaData:        oggi,
		FestivitaDescrizione: "Chiusura della succursale",
		FestivitaTipo:        model.FestivitaFestivo,
	}
	if err := db.Create(&fest).Error; err != nil {
		t.Fatalf("seed festività: %v", err)
	}

	motivo, err := svc.ControlloData(nil, oggi, &sedeA)
	if err != nil {
		t.Fatalf("ControlloData sede A: %v", err)
	}
	if motivo == nil {
		t.Fatal("la sede interessata deve vedere la chiusura")
	}
	motivo, err = svc.ControlloData(nil, oggi, &sedeB)
	if err != nil {
		t.Fatalf("ControlloData sede B: %v", err)
	}
	if motivo != nil {
		t.Fatalf("l'altra sede non è chiusa, trovato %q", *motivo)
	}
}

func TestControlloDataFuoriAnno(t *testing.T) {
	db := testDB(t)
	_, fine := configuraAnno(t, db)
	svc := New(db)

	motivo, err := svc.ControlloData(nil, fine.AddDate(0, 0, 1), nil)
	if err != nil {
		t.Fatalf("ControlloData: %v", err)
	}
	if motivo == nil || *motivo != MotivoFuoriAnno {
		t.Fatalf("atteso %q, trovato %v", MotivoFuoriAnno, motivo)
	}
}

func TestControlloDataGiornoDiRiposo(t *testing.T) {
	db := testDB(t)
	configuraAnno(t, db)
	cfg := configservice.New(db)
	oggi := helper.Oggi()
	if err := cfg.Set(nil, configservice.ParamGiorniFestivi, strconv.Itoa(int(oggi.Weekday()))); err != nil {
		t.Fatalf("set giorni festivi: %v", err)
	}
	svc := New(db)

	motivo, err := svc.ControlloData(nil, oggi, nil)
	if err != nil {
		t.Fatalf("ControlloData: %v", err)
	}
	if motivo == nil || *motivo != MotivoRiposo {
		t.Fatalf("atteso %q, trovato %v", MotivoRiposo, motivo)
	}
}

func TestGiornoSuccessivoSaltaFestivita(t *testing.T) {
	db := testDB(t)
	configuraAnno(t, db)
	svc := New(db)

	oggi := helper.Oggi()
	fest := model.FestivitaModel{
		FestivitaData:        oggi.AddDate(0, 0, 1),
		FestivitaDescrizione: "Ponte",
		FestivitaTipo:        model.FestivitaFestivo,
	}
	if err := db.Create(&fest).Error; err != nil {
		t.Fatalf("seed festività: %v", err)
	}

	giorno, err := svc.GiornoSuccessivo(nil, oggi, nil)
	if err != nil {
		t.Fatalf("GiornoSuccessivo: %v", err)
	}
	atteso := oggi.AddDate(0, 0, 2)
	if giorno == nil || !giorno.Equal(atteso) {
		t.Fatalf("atteso %s, trovato %v", helper.DataStr(atteso), giorno)
	}
}

func TestGiornoPrecedentePrimaDellAnno(t *testing.T) {
	db := testDB(t)
	inizio, _ := configuraAnno(t, db)
	svc := New(db)

	giorno, err := svc.GiornoPrecedente(nil, inizio, nil)
	if err != nil {
		t.Fatalf("GiornoPrecedente: %v", err)
	}
	if giorno != nil {
		t.Fatalf("prima dell'inizio non ci sono giorni di lezione, trovato %v", giorno)
	}
}

func TestInfoPeriodi(t *testing.T) {
	db := testDB(t)
	inizio, fine := configuraAnno(t, db)
	cfg := configservice.New(db)
	p1Fine := helper.Oggi().AddDate(0, 0, -50)
	if err := cfg.Set(nil, configservice.ParamPeriodo1Fine, helper.DataStr(p1Fine)); err != nil {
		t.Fatalf("set periodo1_fine: %v", err)
	}
	svc := New(db)

	periodi, err := svc.InfoPeriodi(nil)
	if err != nil {
		t.Fatalf("InfoPeriodi: %v", err)
	}
	if len(periodi) != 2 {
		t.Fatalf("attesi 2 periodi, trovati %d", len(periodi))
	}
	if periodi[0].Scrutinio != "P" || periodi[1].Scrutinio != "F" {
		t.Fatalf("scrutini attesi P/F, trovati %s/%s", periodi[0].Scrutinio, periodi[1].Scrutinio)
	}
	if !periodi[0].Inizio.Equal(inizio) || !periodi[1].Fine.Equal(fine) {
		t.Fatal("i periodi devono coprire l'intero anno")
	}
	if !periodi[1].Inizio.Equal(p1Fine.AddDate(0, 0, 1)) {
		t.Fatalf("il secondo periodo parte il giorno dopo la fine del primo, trovato %s",
			helper.DataStr(periodi[1].Inizio))
	}

	corrente, err := svc.Periodo(nil, helper.Oggi())
	if err != nil {
		t.Fatalf("Periodo: %v", err)
	}
	if corrente == nil || corrente.Numero != 2 {
		t.Fatalf("oggi cade nel secondo periodo, trovato %+v", corrente)
	}
}

func TestInfoPeriodiConTrimestre(t *testing.T) {
	db := testDB(t)
	configuraAnno(t, db)
	cfg := configservice.New(db)
	for parametro, valore := range map[string]string{
		configservice.ParamPeriodo1Fine: helper.DataStr(helper.Oggi().AddDate(0, 0, -100)),
		configservice.ParamPeriodo2Fine: helper.DataStr(helper.Oggi().AddDate(0, 0, 10)),
		configservice.ParamPeriodo3Nome: "Terzo Trimestre",
	} {
		if err := cfg.Set(nil, parametro, valore); err != nil {
			t.Fatalf("set %s: %v", parametro, err)
		}
	}
	svc := New(db)

	periodi, err := svc.InfoPeriodi(nil)
	if err != nil {
		t.Fatalf("InfoPeriodi: %v", err)
	}
	if len(periodi) != 3 {
		t.Fatalf("attesi 3 periodi, trovati %d", len(periodi))
	}
	if periodi[1].Scrutinio != "S" || periodi[2].Scrutinio != "F" {
		t.Fatalf("scrutini attesi S/F, trovati %s/%s", periodi[1].Scrutinio, periodi[2].Scrutinio)
	}
}

func TestSeRitardoBreve(t *testing.T) {
	db := testDB(t)
	configuraAnno(t, db)
	svc := New(db)

	oggi := helper.Oggi()
	sedeID := uuid.New()
	orario := model.OrarioModel{
		OrarioNome:   "Orario definitivo",
		OrarioSedeID: sedeID,
		OrarioInizio: oggi.AddDate(0, 0, -30),
		OrarioFine:   oggi.AddDate(0, 0, 30),
	}
	if err := db.Create(&orario).Error; err != nil {
		t.Fatalf("seed orario: %v", err)
	}
	prima := model.ScansioneOrariaModel{
		ScansioneOrariaOrarioID: orario.OrarioID,
		ScansioneOrariaGiorno:   int(oggi.Weekday()),
		ScansioneOrariaOra:      1,
		ScansioneOrariaInizio:   "08:00",
		ScansioneOrariaFine:     "09:00",
		ScansioneOrariaDurata:   1,
	}
	if err := db.Create(&prima).Error; err != nil {
		t.Fatalf("seed scansione: %v", err)
	}

	casi := []struct {
		ora    string
		atteso bool
	}{
		{"08:05", true},
		{"08:10", true},
		{"08:11", false},
		{"08:00", false},
		{"07:55", false},
	}
	for _, caso := range casi {
		breve, err := svc.SeRitardoBreve(nil, oggi, caso.ora, sedeID)
		if err != nil {
			t.Fatalf("SeRitardoBreve %s: %v", caso.ora, err)
		}
		if breve != caso.atteso {
			t.Errorf("entrata %s: atteso %v, trovato %v", caso.ora, caso.atteso, breve)
		}
	}
}
