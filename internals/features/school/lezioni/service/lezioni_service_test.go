package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	anagmodel "scuoladigitale_backend/internals/features/school/anagrafica/model"
	assenzemodel "scuoladigitale_backend/internals/features/school/assenze/model"
	calmodel "scuoladigitale_backend/internals/features/school/calendario/model"
	configmodel "scuoladigitale_backend/internals/features/school/configurazione/model"
	"scuoladigitale_backend/internals/features/school/lezioni/model"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	valmodel "scuoladigitale_backend/internals/features/school/valutazioni/model"
	helper "scuoladigitale_backend/internals/helpers"
)

type banco struct {
	db       *gorm.DB
	svc      *LezioniService
	classe   anagmodel.ClasseModel
	docente  uuid.UUID
	materia  anagmodel.MateriaModel
	sostegno anagmodel.MateriaModel
}

func nuovoBanco(t *testing.T) *banco {
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
		&anagmodel.MateriaModel{},
		&model.LezioneModel{},
		&model.FirmaModel{},
		&valmodel.ValutazioneModel{},
		&assenzemodel.AssenzaModel{},
		&assenzemodel.EntrataModel{},
		&assenzemodel.UscitaModel{},
		&assenzemodel.AssenzaLezioneModel{},
	)
	if err != nil {
		t.Fatalf("migrazione: %v", err)
	}

	b := &banco{db: db, svc: New(db), docente: uuid.New()}
	b.classe = anagmodel.ClasseModel{ClasseAnno: 2, ClasseSezione: "A", ClasseSedeID: uuid.New()}
	if err := db.Create(&b.classe).Error; err != nil {
		t.Fatalf("seed classe: %v", err)
	}
	b.materia = anagmodel.MateriaModel{MateriaNome: "Italiano", MateriaNomeBreve: "ITA", MateriaTipo: anagmodel.MateriaNormale}
	if err := db.Create(&b.materia).Error; err != nil {
		t.Fatalf("seed materia: %v", err)
	}
	b.sostegno = anagmodel.MateriaModel{MateriaNome: "Sostegno", MateriaNomeBreve: "SOS", MateriaTipo: anagmodel.MateriaSostegno}
	if err := db.Create(&b.sostegno).Error; err != nil {
		t.Fatalf("seed materia sostegno: %v", err)
	}
	return b
}

func (b *banco) richiesta(ora, oraFine int) *RichiestaFirma {
	return &RichiestaFirma{
		ClasseID:  b.classe.ClasseID,
		Data:      helper.Oggi(),
		Ora:       ora,
		OraFine:   oraFine,
		DocenteID: b.docente,
		MateriaID: b.materia.MateriaID,
		Argomento: "I promessi sposi, cap. 1",
		Attivita:  "Lettura e commento",
	}
}

func (b *banco) contaFirme(t *testing.T, lezioneID uuid.UUID) int64 {
	t.Helper()
	var n int64
	if err := b.db.Model(&model.FirmaModel{}).Where("firma_lezione_id = ?", lezioneID).Count(&n).Error; err != nil {
		t.Fatalf("conteggio firme: %v", err)
	}
	return n
}

func TestCreaLezioneApreGliSlot(t *testing.T) {
	b := nuovoBanco(t)

	toccate, err := b.svc.CreaLezione(nil, b.richiesta(1, 2))
	if err != nil {
		t.Fatalf("CreaLezione: %v", err)
	}
	if len(toccate) != 2 {
		t.Fatalf("attese 2 lezioni aperte, trovate %d", len(toccate))
	}
	for _, lezione := range toccate {
		if n := b.contaFirme(t, lezione.LezioneID); n != 1 {
			t.Errorf("lezione ora %d: attesa 1 firma, trovate %d", lezione.LezioneOra, n)
		}
		if lezione.LezioneArgomento != "I promessi sposi, cap. 1" {
			t.Errorf("argomento non riportato sulla lezione: %q", lezione.LezioneArgomento)
		}
	}
}

func TestCreaLezioneRipetutaNoOp(t *testing.T) {
	b := nuovoBanco(t)

	if _, err := b.svc.CreaLezione(nil, b.richiesta(1, 1)); err != nil {
		t.Fatalf("prima firma: %v", err)
	}
	toccate, err := b.svc.CreaLezione(nil, b.richiesta(1, 1))
	if err != nil {
		t.Fatalf("firma ripetuta: %v", err)
	}
	if len(toccate) != 0 {
		t.Fatalf("la firma ripetuta non tocca nulla, trovate %d lezioni", len(toccate))
	}

	var lezioni []model.LezioneModel
	if err := b.db.Find(&lezioni).Error; err != nil {
		t.Fatalf("lettura lezioni: %v", err)
	}
	if len(lezioni) != 1 {
		t.Fatalf("attesa 1 lezione, trovate %d", len(lezioni))
	}
	if n := b.contaFirme(t, lezioni[0].LezioneID); n != 1 {
		t.Fatalf("attesa 1 firma, trovate %d", n)
	}
}

func TestCreaLezioneCompresenza(t *testing.T) {
	b := nuovoBanco(t)

	if _, err := b.svc.CreaLezione(nil, b.richiesta(1, 1)); err != nil {
		t.Fatalf("prima firma: %v", err)
	}

	collega := b.richiesta(1, 1)
	collega.DocenteID = uuid.New()
	toccate, err := b.svc.CreaLezione(nil, collega)
	if err != nil {
		t.Fatalf("firma del collega: %v", err)
	}
	if len(toccate) != 1 {
		t.Fatalf("attesa 1 lezione toccata, trovate %d", len(toccate))
	}
	if n := b.contaFirme(t, toccate[0].LezioneID); n != 2 {
		t.Fatalf("attese 2 firme in compresenza, trovate %d", n)
	}
}

func TestLezioneDiSostegnoRiappropriata(t *testing.T) {
	b := nuovoBanco(t)

	alunnoID := uuid.New()
	apertura := &RichiestaFirma{
		ClasseID:  b.classe.ClasseID,
		Data:      helper.Oggi(),
		Ora:       1,
		OraFine:   1,
		DocenteID: uuid.New(),
		MateriaID: b.sostegno.MateriaID,
		Argomento: "Attività individualizzata",
		Sostegno:  true,
		AlunnoID:  &alunnoID,
	}
	toccate, err := b.svc.CreaLezione(nil, apertura)
	if err != nil {
		t.Fatalf("apertura sostegno: %v", err)
	}
	if len(toccate) != 1 {
		t.Fatalf("attesa 1 lezione, trovate %d", len(toccate))
	}
	if toccate[0].LezioneArgomento != "" {
		t.Fatalf("la lezione aperta dal sostegno resta senza argomento, trovato %q", toccate[0].LezioneArgomento)
	}

	// il docente curricolare firma lo stesso slot e se ne riappropria
	if _, err := b.svc.CreaLezione(nil, b.richiesta(1, 1)); err != nil {
		t.Fatalf("firma curricolare: %v", err)
	}
	var lezione model.LezioneModel
	if err := b.db.Where("lezione_id = ?", toccate[0].LezioneID).Take(&lezione).Error; err != nil {
		t.Fatalf("lettura lezione: %v", err)
	}
	if lezione.LezioneMateriaID != b.materia.MateriaID {
		t.Fatal("la materia della lezione deve diventare quella curricolare")
	}
	if lezione.LezioneArgomento != "I promessi sposi, cap. 1" {
		t.Fatalf("argomento atteso dal curricolare, trovato %q", lezione.LezioneArgomento)
	}
	if n := b.contaFirme(t, lezione.LezioneID); n != 2 {
		t.Fatalf("attese 2 firme, trovate %d", n)
	}
}

func TestRimuoviFirmaUltimaCancellaLaLezione(t *testing.T) {
	b := nuovoBanco(t)

	toccate, err := b.svc.CreaLezione(nil, b.richiesta(1, 1))
	if err != nil {
		t.Fatalf("CreaLezione: %v", err)
	}
	lezioneID := toccate[0].LezioneID

	riga := assenzemodel.AssenzaLezioneModel{
		AssenzaLezioneLezioneID: lezioneID,
		AssenzaLezioneAlunnoID:  uuid.New(),
	}
	if err := b.db.Create(&riga).Error; err != nil {
		t.Fatalf("seed ore di assenza: %v", err)
	}

	esito, err := b.svc.RimuoviFirma(nil, lezioneID, b.docente)
	if err != nil {
		t.Fatalf("RimuoviFirma: %v", err)
	}
	if !esito.FirmaRimossa || !esito.LezioneRimossa {
		t.Fatalf("attesa rimozione di firma e lezione, trovato %+v", esito)
	}

	var n int64
	b.db.Model(&model.LezioneModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("la lezione deve sparire, trovate %d", n)
	}
	b.db.Model(&assenzemodel.AssenzaLezioneModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("le ore derivate seguono la lezione, trovate %d righe", n)
	}
}

func TestRimuoviFirmaDegradaASostegno(t *testing.T) {
	b := nuovoBanco(t)

	if _, err := b.svc.CreaLezione(nil, b.richiesta(1, 1)); err != nil {
		t.Fatalf("firma curricolare: %v", err)
	}
	alunnoID := uuid.New()
	appoggio := &RichiestaFirma{
		ClasseID:  b.classe.ClasseID,
		Data:      helper.Oggi(),
		Ora:       1,
		OraFine:   1,
		DocenteID: uuid.New(),
		MateriaID: b.sostegno.MateriaID,
		Argomento: "Affiancamento",
		Sostegno:  true,
		AlunnoID:  &alunnoID,
	}
	if _, err := b.svc.CreaLezione(nil, appoggio); err != nil {
		t.Fatalf("firma sostegno: %v", err)
	}

	var lezione model.LezioneModel
	if err := b.db.Take(&lezione).Error; err != nil {
		t.Fatalf("lettura lezione: %v", err)
	}

	esito, err := b.svc.RimuoviFirma(nil, lezione.LezioneID, b.docente)
	if err != nil {
		t.Fatalf("RimuoviFirma: %v", err)
	}
	if esito.LezioneRimossa {
		t.Fatal("resta la firma di sostegno: la lezione non va cancellata")
	}
	if !esito.LezioneSostegno {
		t.Fatalf("attesa la degradazione a sostegno, trovato %+v", esito)
	}

	if err := b.db.Where("lezione_id = ?", lezione.LezioneID).Take(&lezione).Error; err != nil {
		t.Fatalf("rilettura lezione: %v", err)
	}
	if lezione.LezioneMateriaID != b.sostegno.MateriaID {
		t.Fatal("la materia deve diventare il segnaposto di sostegno")
	}
	if lezione.LezioneArgomento != "" || lezione.LezioneAttivita != "" {
		t.Fatal("il contenuto curricolare va svuotato")
	}
}

func TestRimuoviFirmaConVoti(t *testing.T) {
	b := nuovoBanco(t)

	toccate, err := b.svc.CreaLezione(nil, b.richiesta(1, 1))
	if err != nil {
		t.Fatalf("CreaLezione: %v", err)
	}
	lezioneID := toccate[0].LezioneID

	voto := 7.5
	valutazione := valmodel.ValutazioneModel{
		ValutazioneLezioneID: lezioneID,
		ValutazioneDocenteID: b.docente,
		ValutazioneAlunnoID:  uuid.New(),
		ValutazioneMateriaID: b.materia.MateriaID,
		ValutazioneTipo:      "O",
		ValutazioneVoto:      &voto,
	}
	if err := b.db.Create(&valutazione).Error; err != nil {
		t.Fatalf("seed valutazione: %v", err)
	}

	// unica lezione del giorno: i voti non hanno dove andare
	_, err = b.svc.RimuoviFirma(nil, lezioneID, b.docente)
	if !errors.Is(err, regservice.ErrIntegrita) {
		t.Fatalf("atteso ErrIntegrita, trovato %v", err)
	}

	// con una seconda ora firmata i voti migrano lì
	altre, err := b.svc.CreaLezione(nil, b.richiesta(2, 2))
	if err != nil {
		t.Fatalf("seconda ora: %v", err)
	}
	esito, err := b.svc.RimuoviFirma(nil, lezioneID, b.docente)
	if err != nil {
		t.Fatalf("RimuoviFirma: %v", err)
	}
	if esito.VotiRiassegnati != 1 {
		t.Fatalf("atteso 1 voto riassegnato, trovati %d", esito.VotiRiassegnati)
	}
	var salvata valmodel.ValutazioneModel
	if err := b.db.Where("valutazione_id = ?", valutazione.ValutazioneID).Take(&salvata).Error; err != nil {
		t.Fatalf("rilettura valutazione: %v", err)
	}
	if salvata.ValutazioneLezioneID != altre[0].LezioneID {
		t.Fatal("il voto deve spostarsi sulla lezione di ripiego")
	}
}

func TestOreConsecutive(t *testing.T) {
	b := nuovoBanco(t)

	oggi := helper.Oggi()
	sedeID := b.classe.ClasseSedeID
	orario := calmodel.OrarioModel{
		OrarioNome:   "Provvisorio",
		OrarioSedeID: sedeID,
		OrarioInizio: oggi.AddDate(0, 0, -10),
		OrarioFine:   oggi.AddDate(0, 0, 10),
	}
	if err := b.db.Create(&orario).Error; err != nil {
		t.Fatalf("seed orario: %v", err)
	}
	for ora := 1; ora <= 4; ora++ {
		scansione := calmodel.ScansioneOrariaModel{
			ScansioneOrariaOrarioID: orario.OrarioID,
			ScansioneOrariaGiorno:   int(oggi.Weekday()),
			ScansioneOrariaOra:      ora,
			ScansioneOrariaInizio:   helper.OraStr(7*60 + ora*60),
			ScansioneOrariaFine:     helper.OraStr(8*60 + ora*60),
			ScansioneOrariaDurata:   1,
		}
		if err := b.db.Create(&scansione).Error; err != nil {
			t.Fatalf("seed scansione ora %d: %v", ora, err)
		}
	}

	// terza ora già occupata da un collega
	occupata := b.richiesta(3, 3)
	occupata.DocenteID = uuid.New()
	if _, err := b.svc.CreaLezione(nil, occupata); err != nil {
		t.Fatalf("seed lezione occupata: %v", err)
	}

	ore, err := b.svc.OreConsecutive(nil, oggi, 1, b.classe.ClasseID, sedeID)
	if err != nil {
		t.Fatalf("OreConsecutive: %v", err)
	}
	if len(ore) != 2 || ore[0] != 1 || ore[1] != 2 {
		t.Fatalf("attese le ore [1 2], trovate %v", ore)
	}
}
