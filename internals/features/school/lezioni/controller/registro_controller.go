package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditservice "scuoladigitale_backend/internals/features/audit/service"
	anagmodel "scuoladigitale_backend/internals/features/school/anagrafica/model"
	"scuoladigitale_backend/internals/features/school/lezioni/dto"
	lezmodel "scuoladigitale_backend/internals/features/school/lezioni/model"
	service "scuoladigitale_backend/internals/features/school/lezioni/service"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	helper "scuoladigitale_backend/internals/helpers"
)

type RegistroController struct {
	DB       *gorm.DB
	Lezioni  *service.LezioniService
	Registro *regservice.RegistroService
	Audit    *auditservice.AuditService
}

func NewRegistroController(db *gorm.DB) *RegistroController {
	return &RegistroController{
		DB:       db,
		Lezioni:  service.New(db),
		Registro: regservice.New(db),
		Audit:    auditservice.New(db),
	}
}

/* ===================== CREATE ===================== */
// POST /docente/registro/firme
func (ctrl *RegistroController) FirmaLezione(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.FirmaLezioneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	data, err := req.ParseData()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Data non valida")
	}

	// ===== TRANSACTION START =====
	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, tx.Error.Error())
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// la cattedra deve essere del docente e della classe
	var cattedra anagmodel.CattedraModel
	err = tx.Where("cattedra_id = ? AND cattedra_docente_id = ? AND cattedra_attiva = ?",
		req.CattedraID, docenteID, true).
		Take(&cattedra).Error
	if err != nil || cattedra.CattedraClasseID != req.ClasseID {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			regservice.MotivoNessunaCattedra.Messaggio(),
			fiber.Map{"motivo": regservice.MotivoNessunaCattedra})
	}
	tipoMateria, err := ctrl.tipoMateria(tx, cattedra.CattedraMateriaID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	sostegno := tipoMateria == anagmodel.MateriaSostegno

	// gate del motore, slot per slot
	oraFine := req.OraFine
	if oraFine < req.Ora {
		oraFine = req.Ora
	}
	for ora := req.Ora; ora <= oraFine; ora++ {
		_, firme, err := ctrl.Lezioni.Firme(tx, req.ClasseID, data, ora)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		esito, err := ctrl.Registro.AzioneLezione(tx, regservice.AzioneAggiungi, data, cap, req.ClasseID, firme)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !esito.Permesso && esito.Motivo != regservice.MotivoGiaFirmato {
			tx.Rollback()
			return helper.ErrorWithDetails(c, fiber.StatusForbidden,
				esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
		}
	}

	richiesta := service.RichiestaFirma{
		ClasseID:  req.ClasseID,
		Data:      data,
		Ora:       req.Ora,
		OraFine:   oraFine,
		DocenteID: docenteID,
		MateriaID: cattedra.CattedraMateriaID,
		Argomento: req.Argomento,
		Attivita:  req.Attivita,
		Sostegno:  sostegno,
		AlunnoID:  req.AlunnoID,
	}
	if sostegno && richiesta.AlunnoID == nil {
		richiesta.AlunnoID = cattedra.CattedraAlunnoID
	}

	lezioni, err := ctrl.Lezioni.CreaLezione(tx, &richiesta)
	if err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	// ===== TRANSACTION END =====

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "registro", "firma_lezione", c.OriginalURL(), fiber.Map{
		"classe_id": req.ClasseID,
		"data":      req.Data,
		"ora":       req.Ora,
		"ora_fine":  oraFine,
	})

	return helper.JsonCreated(c, "Lezione firmata", dto.FromLezioneModels(lezioni))
}

/* ===================== UPDATE ===================== */
// PUT /docente/registro/firme/:lezione_id
func (ctrl *RegistroController) ModificaLezione(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	lezioneID, err := uuid.Parse(c.Params("lezione_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}

	var req dto.ModificaLezioneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, tx.Error.Error())
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	lezione, firme, err := ctrl.lezionePerID(tx, lezioneID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Lezione non trovata")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	esito, err := ctrl.Registro.AzioneLezione(tx, regservice.AzioneModifica, lezione.LezioneData, cap, lezione.LezioneClasseID, firme)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Lezioni.ModificaLezione(tx, lezioneID, docenteID, req.Argomento, req.Attivita); err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "registro", "modifica_lezione", c.OriginalURL(), fiber.Map{
		"lezione_id": lezioneID,
	})
	return helper.JsonOK(c, "Lezione aggiornata", fiber.Map{"lezione_id": lezioneID})
}

/* ===================== DELETE ===================== */
// DELETE /docente/registro/firme/:lezione_id
func (ctrl *RegistroController) RimuoviFirma(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	lezioneID, err := uuid.Parse(c.Params("lezione_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}

	tx := ctrl.DB.Begin()
	if tx.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, tx.Error.Error())
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	lezione, firme, err := ctrl.lezionePerID(tx, lezioneID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Lezione non trovata")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	esito, err := ctrl.Registro.AzioneLezione(tx, regservice.AzioneCancella, lezione.LezioneData, cap, lezione.LezioneClasseID, firme)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	risultato, err := ctrl.Lezioni.RimuoviFirma(tx, lezioneID, docenteID)
	if err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "registro", "rimuovi_firma", c.OriginalURL(), fiber.Map{
		"lezione_id":       lezioneID,
		"lezione_rimossa":  risultato.LezioneRimossa,
		"lezione_sostegno": risultato.LezioneSostegno,
	})
	return helper.JsonOK(c, "Firma rimossa", dto.FromRisultatoRimozione(risultato))
}

/* ===================== READ ===================== */
// GET /docente/registro/ore-consecutive?classe_id=&sede_id=&data=&ora=
func (ctrl *RegistroController) OreConsecutive(c *fiber.Ctx) error {
	if _, err := helper.GetDocenteIDFromToken(c); err != nil {
		return err
	}
	classeID, err := uuid.Parse(c.Query("classe_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "classe_id non valido")
	}
	sedeID, err := uuid.Parse(c.Query("sede_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "sede_id non valido")
	}
	data, err := helper.ParseData(c.Query("data"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "data non valida")
	}
	ora := c.QueryInt("ora", 1)

	ore, err := ctrl.Lezioni.OreConsecutive(nil, data, ora, classeID, sedeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Ore disponibili", fiber.Map{"ore": ore})
}

/* ===== interni ===== */

func (ctrl *RegistroController) lezionePerID(tx *gorm.DB, lezioneID uuid.UUID) (*lezmodel.LezioneModel, []lezmodel.FirmaModel, error) {
	var lezione lezmodel.LezioneModel
	if err := tx.Where("lezione_id = ?", lezioneID).Take(&lezione).Error; err != nil {
		return nil, nil, err
	}
	var firme []lezmodel.FirmaModel
	if err := tx.Where("firma_lezione_id = ?", lezioneID).Find(&firme).Error; err != nil {
		return nil, nil, err
	}
	return &lezione, firme, nil
}

func (ctrl *RegistroController) tipoMateria(tx *gorm.DB, materiaID uuid.UUID) (string, error) {
	var materia anagmodel.MateriaModel
	if err := tx.Where("materia_id = ?", materiaID).Take(&materia).Error; err != nil {
		return "", err
	}
	return materia.MateriaTipo, nil
}

func (ctrl *RegistroController) erroreMutazione(c *fiber.Ctx, err error) error {
	var ricalcolo *regservice.ErroreRicalcolo
	switch {
	case errors.Is(err, regservice.ErrDuplicato):
		return helper.JsonOK(c, "Nessuna modifica necessaria", nil)
	case errors.Is(err, regservice.ErrIntegrita):
		return helper.Error(c, fiber.StatusConflict,
			"Operazione in conflitto con valutazioni collegate")
	case errors.As(err, &ricalcolo):
		return helper.Error(c, fiber.StatusInternalServerError,
			"Ricalcolo ore di assenza fallito, operazione annullata")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Risorsa non trovata")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
