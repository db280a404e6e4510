package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditservice "scuoladigitale_backend/internals/features/audit/service"
	lezmodel "scuoladigitale_backend/internals/features/school/lezioni/model"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	"scuoladigitale_backend/internals/features/school/valutazioni/dto"
	"scuoladigitale_backend/internals/features/school/valutazioni/model"
	helper "scuoladigitale_backend/internals/helpers"
)

type ValutazioniController struct {
	DB       *gorm.DB
	Registro *regservice.RegistroService
	Audit    *auditservice.AuditService
}

func NewValutazioniController(db *gorm.DB) *ValutazioniController {
	return &ValutazioniController{
		DB:       db,
		Registro: regservice.New(db),
		Audit:    auditservice.New(db),
	}
}

/* ===================== CREATE ===================== */
// POST /docente/valutazioni
func (ctrl *ValutazioniController) Crea(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.ValutazioneRequest
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

	esito, err := ctrl.Registro.AzioneVoti(tx, data, cap, req.ClasseID, req.MateriaID, &req.AlunnoID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	// il voto si ancora alla lezione del giorno per la materia
	var lezione lezmodel.LezioneModel
	err = tx.Where("lezione_classe_id = ? AND lezione_data = ? AND lezione_materia_id = ?",
		req.ClasseID, helper.TruncaData(data), req.MateriaID).
		Order("lezione_ora ASC").
		Take(&lezione).Error
	if err != nil {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			regservice.MotivoLezioneInesistente.Messaggio(),
			fiber.Map{"motivo": regservice.MotivoLezioneInesistente})
	}

	valutazione := model.ValutazioneModel{
		ValutazioneLezioneID: lezione.LezioneID,
		ValutazioneDocenteID: docenteID,
		ValutazioneAlunnoID:  req.AlunnoID,
		ValutazioneMateriaID: req.MateriaID,
		ValutazioneTipo:      req.Tipo,
		ValutazioneVoto:      req.Voto,
		ValutazioneGiudizio:  req.Giudizio,
		ValutazioneArgomento: req.Argomento,
		ValutazioneVisibile:  req.Visibile,
		ValutazioneMedia:     req.Media,
	}
	if err := tx.Create(&valutazione).Error; err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Salvataggio valutazione fallito")
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "valutazioni", "crea", c.OriginalURL(), fiber.Map{
		"valutazione_id": valutazione.ValutazioneID,
		"alunno_id":      req.AlunnoID,
	})
	return helper.JsonCreated(c, "Valutazione registrata", dto.FromValutazioneModel(valutazione))
}

/* ===================== UPDATE ===================== */
// PUT /docente/valutazioni/:valutazione_id
func (ctrl *ValutazioniController) Modifica(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	valutazione, lezione, fe := ctrl.carica(c)
	if fe != nil {
		return fe
	}
	if valutazione.ValutazioneDocenteID != docenteID {
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			regservice.MotivoNonAutore.Messaggio(),
			fiber.Map{"motivo": regservice.MotivoNonAutore})
	}

	var req dto.ModificaValutazioneRequest
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

	esito, err := ctrl.Registro.AzioneVoti(tx, lezione.LezioneData, cap, lezione.LezioneClasseID,
		valutazione.ValutazioneMateriaID, &valutazione.ValutazioneAlunnoID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	aggiornamenti := map[string]interface{}{}
	if req.Voto != nil {
		aggiornamenti["valutazione_voto"] = *req.Voto
	}
	if req.Giudizio != nil {
		aggiornamenti["valutazione_giudizio"] = *req.Giudizio
	}
	if req.Argomento != nil {
		aggiornamenti["valutazione_argomento"] = *req.Argomento
	}
	if req.Visibile != nil {
		aggiornamenti["valutazione_visibile"] = *req.Visibile
	}
	if req.Media != nil {
		aggiornamenti["valutazione_media"] = *req.Media
	}
	if len(aggiornamenti) == 0 {
		tx.Rollback()
		return helper.JsonOK(c, "Nessuna modifica", dto.FromValutazioneModel(*valutazione))
	}

	err = tx.Model(&model.ValutazioneModel{}).
		Where("valutazione_id = ?", valutazione.ValutazioneID).
		Updates(aggiornamenti).Error
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Aggiornamento valutazione fallito")
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "valutazioni", "modifica", c.OriginalURL(), fiber.Map{
		"valutazione_id": valutazione.ValutazioneID,
	})
	return helper.JsonOK(c, "Valutazione aggiornata", fiber.Map{"valutazione_id": valutazione.ValutazioneID})
}

/* ===================== DELETE ===================== */
// DELETE /docente/valutazioni/:valutazione_id
func (ctrl *ValutazioniController) Rimuovi(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	valutazione, lezione, fe := ctrl.carica(c)
	if fe != nil {
		return fe
	}
	if valutazione.ValutazioneDocenteID != docenteID {
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			regservice.MotivoNonAutore.Messaggio(),
			fiber.Map{"motivo": regservice.MotivoNonAutore})
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

	// la cancellazione non richiede la lezione (il blocco resta)
	blocco, err := ctrl.Registro.BloccoScrutinio(tx, lezione.LezioneData, &lezione.LezioneClasseID)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if blocco {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			regservice.MotivoBloccoScrutinio.Messaggio(),
			fiber.Map{"motivo": regservice.MotivoBloccoScrutinio})
	}

	err = tx.Where("valutazione_id = ?", valutazione.ValutazioneID).
		Delete(&model.ValutazioneModel{}).Error
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, "Cancellazione valutazione fallita")
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "valutazioni", "rimuovi", c.OriginalURL(), fiber.Map{
		"valutazione_id": valutazione.ValutazioneID,
	})
	return helper.JsonOK(c, "Valutazione rimossa", nil)
}

func (ctrl *ValutazioniController) carica(c *fiber.Ctx) (*model.ValutazioneModel, *lezmodel.LezioneModel, error) {
	valutazioneID, err := uuid.Parse(c.Params("valutazione_id"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}
	var valutazione model.ValutazioneModel
	err = ctrl.DB.Where("valutazione_id = ?", valutazioneID).Take(&valutazione).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Valutazione non trovata")
	}
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	var lezione lezmodel.LezioneModel
	if err := ctrl.DB.Where("lezione_id = ?", valutazione.ValutazioneLezioneID).Take(&lezione).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &valutazione, &lezione, nil
}
