package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditservice "scuoladigitale_backend/internals/features/audit/service"
	anagmodel "scuoladigitale_backend/internals/features/school/anagrafica/model"
	"scuoladigitale_backend/internals/features/school/note/dto"
	"scuoladigitale_backend/internals/features/school/note/model"
	service "scuoladigitale_backend/internals/features/school/note/service"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	helper "scuoladigitale_backend/internals/helpers"
)

type OsservazioniController struct {
	DB       *gorm.DB
	Note     *service.NoteService
	Registro *regservice.RegistroService
	Audit    *auditservice.AuditService
}

func NewOsservazioniController(db *gorm.DB) *OsservazioniController {
	return &OsservazioniController{
		DB:       db,
		Note:     service.New(db),
		Registro: regservice.New(db),
		Audit:    auditservice.New(db),
	}
}

/* ===================== CREATE ===================== */
// POST /docente/osservazioni
func (ctrl *OsservazioniController) Crea(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.OsservazioneRequest
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

	cattedra, fe := ctrl.cattedra(c, tx, req.CattedraID)
	if fe != nil {
		tx.Rollback()
		return fe
	}

	esito, err := ctrl.Registro.AzioneOsservazione(tx, regservice.AzioneAggiungi, data, cap, cattedra)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	osservazione := model.OsservazioneModel{
		OsservazioneCattedraID: req.CattedraID,
		OsservazioneAlunnoID:   req.AlunnoID,
		OsservazioneData:       data,
		OsservazioneTesto:      req.Testo,
	}
	if err := ctrl.Note.CreaOsservazione(tx, &osservazione); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "osservazioni", "crea", c.OriginalURL(), fiber.Map{
		"osservazione_id": osservazione.OsservazioneID,
	})
	return helper.JsonCreated(c, "Osservazione registrata", fiber.Map{
		"osservazione_id": osservazione.OsservazioneID,
	})
}

/* ===================== UPDATE ===================== */
// PUT /docente/osservazioni/:osservazione_id
func (ctrl *OsservazioniController) Modifica(c *fiber.Ctx) error {
	return ctrl.mutazione(c, regservice.AzioneModifica)
}

/* ===================== DELETE ===================== */
// DELETE /docente/osservazioni/:osservazione_id
func (ctrl *OsservazioniController) Rimuovi(c *fiber.Ctx) error {
	return ctrl.mutazione(c, regservice.AzioneCancella)
}

func (ctrl *OsservazioniController) mutazione(c *fiber.Ctx, azione string) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	osservazioneID, err := uuid.Parse(c.Params("osservazione_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}

	var req dto.ModificaOsservazioneRequest
	if azione == regservice.AzioneModifica {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
		}
		v := validator.New()
		if err := v.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
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

	var osservazione model.OsservazioneModel
	err = tx.Where("osservazione_id = ?", osservazioneID).Take(&osservazione).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return fiber.NewError(fiber.StatusNotFound, "Osservazione non trovata")
	}
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	cattedra, fe := ctrl.cattedra(c, tx, osservazione.OsservazioneCattedraID)
	if fe != nil {
		tx.Rollback()
		return fe
	}

	esito, err := ctrl.Registro.AzioneOsservazione(tx, azione, osservazione.OsservazioneData, cap, cattedra)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if azione == regservice.AzioneModifica {
		err = ctrl.Note.ModificaOsservazione(tx, osservazioneID, req.Testo)
	} else {
		err = ctrl.Note.RimuoviOsservazione(tx, osservazioneID)
	}
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "osservazioni", azione, c.OriginalURL(), fiber.Map{
		"osservazione_id": osservazioneID,
	})
	return helper.JsonOK(c, "Osservazione aggiornata", nil)
}

func (ctrl *OsservazioniController) cattedra(c *fiber.Ctx, tx *gorm.DB, cattedraID uuid.UUID) (*anagmodel.CattedraModel, error) {
	var cattedra anagmodel.CattedraModel
	err := tx.Where("cattedra_id = ?", cattedraID).Take(&cattedra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Cattedra non trovata")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &cattedra, nil
}
