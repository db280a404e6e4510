package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	anagController "scuoladigitale_backend/internals/features/school/anagrafica/controller"
	assenzeController "scuoladigitale_backend/internals/features/school/assenze/controller"
	calController "scuoladigitale_backend/internals/features/school/calendario/controller"
	lezController "scuoladigitale_backend/internals/features/school/lezioni/controller"
	noteController "scuoladigitale_backend/internals/features/school/note/controller"
	valController "scuoladigitale_backend/internals/features/school/valutazioni/controller"
)

// DocenteRoutes monta le rotte del registro di classe per i docenti.
func DocenteRoutes(r fiber.Router, db *gorm.DB) {
	registro := lezController.NewRegistroController(db)
	assenze := assenzeController.NewAssenzeController(db)
	annotazioni := noteController.NewAnnotazioniController(db)
	note := noteController.NewNoteController(db)
	osservazioni := noteController.NewOsservazioniController(db)
	valutazioni := valController.NewValutazioniController(db)
	calendario := calController.NewCalendarioController(db)
	anagrafica := anagController.NewAnagraficaController(db)

	// firme e lezioni
	r.Post("/registro/firme", registro.FirmaLezione)
	r.Put("/registro/firme/:lezione_id", registro.ModificaLezione)
	r.Delete("/registro/firme/:lezione_id", registro.RimuoviFirma)
	r.Get("/registro/ore-consecutive", registro.OreConsecutive)

	// assenze, entrate e uscite
	r.Post("/assenze/appello", assenze.Appello)
	r.Post("/assenze/entrate", assenze.RegistraEntrata)
	r.Delete("/assenze/entrate/:alunno_id/:data", assenze.RimuoviEntrata)
	r.Post("/assenze/uscite", assenze.RegistraUscita)
	r.Delete("/assenze/uscite/:alunno_id/:data", assenze.RimuoviUscita)
	r.Post("/assenze/giustifica", assenze.Giustifica)

	// annotazioni sul registro
	r.Post("/annotazioni", annotazioni.Crea)
	r.Put("/annotazioni/:annotazione_id", annotazioni.Modifica)
	r.Delete("/annotazioni/:annotazione_id", annotazioni.Rimuovi)

	// note disciplinari
	r.Post("/note", note.Crea)
	r.Put("/note/:nota_id", note.Modifica)
	r.Delete("/note/:nota_id", note.Rimuovi)
	r.Patch("/note/:nota_id/annulla", note.Annulla)
	r.Patch("/note/:nota_id/provvedimento", note.Provvedimento)

	// osservazioni per cattedra
	r.Post("/osservazioni", osservazioni.Crea)
	r.Put("/osservazioni/:osservazione_id", osservazioni.Modifica)
	r.Delete("/osservazioni/:osservazione_id", osservazioni.Rimuovi)

	// valutazioni
	r.Post("/valutazioni", valutazioni.Crea)
	r.Put("/valutazioni/:valutazione_id", valutazioni.Modifica)
	r.Delete("/valutazioni/:valutazione_id", valutazioni.Rimuovi)

	// calendario
	r.Get("/calendario/controllo", calendario.Controllo)
	r.Get("/calendario/festivi", calendario.Festivi)
	r.Get("/calendario/orario", calendario.Orario)
	r.Get("/calendario/periodi", calendario.Periodi)
	r.Get("/calendario/successivo", calendario.Successivo)
	r.Get("/calendario/precedente", calendario.Precedente)

	// anagrafica (sola lettura)
	r.Get("/classi/:classe_id/alunni", anagrafica.AlunniClasse)
}
