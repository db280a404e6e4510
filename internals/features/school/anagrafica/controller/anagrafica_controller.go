package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditservice "scuoladigitale_backend/internals/features/audit/service"
	"scuoladigitale_backend/internals/features/school/anagrafica/dto"
	"scuoladigitale_backend/internals/features/school/anagrafica/model"
	service "scuoladigitale_backend/internals/features/school/anagrafica/service"
	assenzeservice "scuoladigitale_backend/internals/features/school/assenze/service"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	helper "scuoladigitale_backend/internals/helpers"
)

type AnagraficaController struct {
	DB         *gorm.DB
	Anagrafica *service.AnagraficaService
	Ricalcolo  *assenzeservice.RicalcoloService
	Audit      *auditservice.AuditService
}

func NewAnagraficaController(db *gorm.DB) *AnagraficaController {
	return &AnagraficaController{
		DB:         db,
		Anagrafica: service.New(db),
		Ricalcolo:  assenzeservice.NewRicalcolo(db),
		Audit:      auditservice.New(db),
	}
}

/* ===================== TRASFERIMENTI ===================== */
// POST /staff/trasferimenti
func (ctrl *AnagraficaController) Trasferisci(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.TrasferimentoRequest
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

	err = ctrl.Anagrafica.TrasferisciAlunno(tx, req.AlunnoID, data, req.ClasseID, req.Tipo)
	if errors.Is(err, service.ErrValutazioniPresenti) {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			regservice.MotivoValutazioniPresenti.Messaggio(),
			fiber.Map{"motivo": regservice.MotivoValutazioniPresenti})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return fiber.NewError(fiber.StatusNotFound, "Alunno non trovato")
	}
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// un trasferimento retrodatato lascia ore derivate della vecchia
	// classe: si riallineano nella stessa transazione
	if err := ctrl.Ricalcolo.RicalcolaDopoTrasferimento(tx, req.AlunnoID, data); err != nil {
		tx.Rollback()
		return helper.Error(c, fiber.StatusInternalServerError,
			"Ricalcolo ore di assenza fallito, operazione annullata")
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "anagrafica", "trasferimento", c.OriginalURL(), fiber.Map{
		"alunno_id": req.AlunnoID,
		"classe_id": req.ClasseID,
		"data":      req.Data,
	})
	return helper.JsonOK(c, "Trasferimento registrato", fiber.Map{"alunno_id": req.AlunnoID})
}

/* ===================== CATTEDRE ===================== */
// POST /staff/cattedre
func (ctrl *AnagraficaController) CreaCattedra(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CattedraRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload non valido")
	}
	v := validator.New()
	if err := v.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	tipo := req.Tipo
	if tipo == "" {
		tipo = model.CattedraNormale
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

	cattedra := model.CattedraModel{
		CattedraDocenteID: req.DocenteID,
		CattedraClasseID:  req.ClasseID,
		CattedraMateriaID: req.MateriaID,
		CattedraAlunnoID:  req.AlunnoID,
		CattedraTipo:      tipo,
		CattedraAttiva:    true,
		CattedraSupplenza: req.Supplenza,
	}
	err = ctrl.Anagrafica.CreaCattedra(tx, &cattedra)
	if errors.Is(err, service.ErrCattedraDuplicata) {
		tx.Rollback()
		return fiber.NewError(fiber.StatusConflict, "Cattedra già esistente")
	}
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "anagrafica", "crea_cattedra", c.OriginalURL(), fiber.Map{
		"cattedra_id": cattedra.CattedraID,
		"docente_id":  req.DocenteID,
		"classe_id":   req.ClasseID,
	})
	return helper.JsonCreated(c, "Cattedra creata", fiber.Map{"cattedra_id": cattedra.CattedraID})
}

/* ===================== READ ===================== */
// GET /docente/classi/:classe_id/alunni?data=2006-01-02
func (ctrl *AnagraficaController) AlunniClasse(c *fiber.Ctx) error {
	classeID, err := uuid.Parse(c.Params("classe_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}
	data := helper.Oggi()
	if s := c.Query("data"); s != "" {
		data, err = dto.ParseData(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data non valida")
		}
	}
	alunni, err := ctrl.Anagrafica.AlunniInData(nil, data, classeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Elenco alunni", alunni)
}
