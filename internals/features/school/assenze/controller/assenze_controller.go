package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditservice "scuoladigitale_backend/internals/features/audit/service"
	"scuoladigitale_backend/internals/features/school/assenze/dto"
	service "scuoladigitale_backend/internals/features/school/assenze/service"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	helper "scuoladigitale_backend/internals/helpers"
)

type AssenzeController struct {
	DB       *gorm.DB
	Assenze  *service.AssenzeService
	Registro *regservice.RegistroService
	Audit    *auditservice.AuditService
}

func NewAssenzeController(db *gorm.DB) *AssenzeController {
	return &AssenzeController{
		DB:       db,
		Assenze:  service.New(db),
		Registro: regservice.New(db),
		Audit:    auditservice.New(db),
	}
}

/* ===================== APPELLO ===================== */
// POST /docente/assenze/appello
func (ctrl *AssenzeController) Appello(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.AppelloRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	data, err := dto.ParseData(req.Data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Data non valida")
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

	esito, err := ctrl.Registro.AzioneAssenze(tx, data, cap, nil, &req.ClasseID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	// ogni assente deve appartenere alla classe alla data
	for _, alunnoID := range req.Assenti {
		esito, err := ctrl.Registro.AzioneAssenze(tx, data, cap, &alunnoID, &req.ClasseID)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !esito.Permesso {
			tx.Rollback()
			return helper.ErrorWithDetails(c, fiber.StatusForbidden,
				esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo, "alunno_id": alunnoID})
		}
	}

	if err := ctrl.Assenze.Appello(tx, data, req.ClasseID, docenteID, req.Assenti); err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "assenze", "appello", c.OriginalURL(), fiber.Map{
		"classe_id": req.ClasseID,
		"data":      req.Data,
		"assenti":   len(req.Assenti),
	})
	return helper.JsonOK(c, "Appello registrato", fiber.Map{"assenti": len(req.Assenti)})
}

/* ===================== ENTRATE ===================== */
// POST /docente/assenze/entrate
func (ctrl *AssenzeController) RegistraEntrata(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.EntrataRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	data, err := dto.ParseData(req.Data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Data non valida")
	}
	if _, err := helper.MinutiOra(req.Ora); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Ora non valida")
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

	esito, err := ctrl.Registro.AzioneAssenze(tx, data, cap, &req.AlunnoID, &req.ClasseID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Assenze.RegistraEntrata(tx, data, req.AlunnoID, docenteID, req.SedeID, req.Ora, req.Note); err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "assenze", "entrata", c.OriginalURL(), fiber.Map{
		"alunno_id": req.AlunnoID,
		"data":      req.Data,
		"ora":       req.Ora,
	})
	return helper.JsonCreated(c, "Entrata registrata", nil)
}

// DELETE /docente/assenze/entrate/:alunno_id/:data
func (ctrl *AssenzeController) RimuoviEntrata(c *fiber.Ctx) error {
	return ctrl.rimuoviRecord(c, "entrata")
}

/* ===================== USCITE ===================== */
// POST /docente/assenze/uscite
func (ctrl *AssenzeController) RegistraUscita(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.UscitaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	data, err := dto.ParseData(req.Data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Data non valida")
	}
	if _, err := helper.MinutiOra(req.Ora); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Ora non valida")
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

	esito, err := ctrl.Registro.AzioneAssenze(tx, data, cap, &req.AlunnoID, &req.ClasseID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Assenze.RegistraUscita(tx, data, req.AlunnoID, docenteID, req.Ora, req.Note); err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "assenze", "uscita", c.OriginalURL(), fiber.Map{
		"alunno_id": req.AlunnoID,
		"data":      req.Data,
		"ora":       req.Ora,
	})
	return helper.JsonCreated(c, "Uscita registrata", nil)
}

// DELETE /docente/assenze/uscite/:alunno_id/:data
func (ctrl *AssenzeController) RimuoviUscita(c *fiber.Ctx) error {
	return ctrl.rimuoviRecord(c, "uscita")
}

/* ===================== GIUSTIFICAZIONI ===================== */
// POST /docente/assenze/giustifica
func (ctrl *AssenzeController) Giustifica(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.GiustificaRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if len(req.AssenzeID) == 0 && len(req.EntrateID) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Nessuna giustificazione da registrare")
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

	if len(req.AssenzeID) > 0 {
		if err := ctrl.Assenze.Giustifica(tx, docenteID, req.AssenzeID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	if len(req.EntrateID) > 0 {
		if err := ctrl.Assenze.GiustificaEntrate(tx, docenteID, req.EntrateID); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "assenze", "giustifica", c.OriginalURL(), fiber.Map{
		"assenze": len(req.AssenzeID),
		"entrate": len(req.EntrateID),
	})
	return helper.JsonOK(c, "Giustificazioni registrate", nil)
}

/* ===== interni ===== */

func (ctrl *AssenzeController) rimuoviRecord(c *fiber.Ctx, tipo string) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	alunnoID, err := uuid.Parse(c.Params("alunno_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "alunno_id non valido")
	}
	data, err := helper.ParseData(c.Params("data"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Data non valida")
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

	// la cancellazione passa dal motore come la registrazione
	classeID, err := ctrl.Registro.Anagrafica.ClasseInData(tx, data, alunnoID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Alunno non trovato")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	esito, err := ctrl.Registro.AzioneAssenze(tx, data, cap, &alunnoID, classeID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if tipo == "entrata" {
		err = ctrl.Assenze.RimuoviEntrata(tx, data, alunnoID)
	} else {
		err = ctrl.Assenze.RimuoviUscita(tx, data, alunnoID)
	}
	if err != nil {
		tx.Rollback()
		return ctrl.erroreMutazione(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "assenze", "rimuovi_"+tipo, c.OriginalURL(), fiber.Map{
		"alunno_id": alunnoID,
		"data":      helper.DataStr(data),
	})
	return helper.JsonOK(c, "Record rimosso", nil)
}

func (ctrl *AssenzeController) erroreMutazione(c *fiber.Ctx, err error) error {
	var ricalcolo *regservice.ErroreRicalcolo
	switch {
	case errors.As(err, &ricalcolo):
		return helper.Error(c, fiber.StatusInternalServerError,
			"Ricalcolo ore di assenza fallito, operazione annullata")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Record non trovato")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
