package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditservice "scuoladigitale_backend/internals/features/audit/service"
	anagservice "scuoladigitale_backend/internals/features/school/anagrafica/service"
	"scuoladigitale_backend/internals/features/school/note/dto"
	"scuoladigitale_backend/internals/features/school/note/model"
	service "scuoladigitale_backend/internals/features/school/note/service"
	regservice "scuoladigitale_backend/internals/features/school/registro/service"
	helper "scuoladigitale_backend/internals/helpers"
)

type AnnotazioniController struct {
	DB         *gorm.DB
	Note       *service.NoteService
	Registro   *regservice.RegistroService
	Anagrafica *anagservice.AnagraficaService
	Audit      *auditservice.AuditService
}

func NewAnnotazioniController(db *gorm.DB) *AnnotazioniController {
	return &AnnotazioniController{
		DB:         db,
		Note:       service.New(db),
		Registro:   regservice.New(db),
		Anagrafica: anagservice.New(db),
		Audit:      auditservice.New(db),
	}
}

/* ===================== CREATE ===================== */
// POST /docente/annotazioni
func (ctrl *AnnotazioniController) Crea(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.AnnotazioneRequest
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

	esito, err := ctrl.Registro.AzioneAnnotazione(tx, regservice.AzioneAggiungi, cap, nil)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	// un'annotazione visibile alle famiglie non può citare alunni
	if req.Visibile {
		nome, err := ctrl.Note.ContieneNomiAlunni(tx, data, req.ClasseID, req.Testo)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if nome != nil {
			tx.Rollback()
			return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
				"Il testo visibile alle famiglie contiene il nome di un alunno",
				fiber.Map{"nome": *nome})
		}
	}

	annotazione := model.AnnotazioneModel{
		AnnotazioneClasseID:  req.ClasseID,
		AnnotazioneDocenteID: docenteID,
		AnnotazioneData:      data,
		AnnotazioneTesto:     req.Testo,
		AnnotazioneVisibile:  req.Visibile,
	}
	if err := ctrl.Note.CreaAnnotazione(tx, &annotazione); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "annotazioni", "crea", c.OriginalURL(), fiber.Map{
		"annotazione_id": annotazione.AnnotazioneID,
		"visibile":       req.Visibile,
	})
	if req.Visibile {
		ctrl.notificaFamiglie(&annotazione)
	}
	return helper.JsonCreated(c, "Annotazione creata", dto.FromAnnotazioneModel(annotazione))
}

/* ===================== UPDATE ===================== */
// PUT /docente/annotazioni/:annotazione_id
func (ctrl *AnnotazioniController) Modifica(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	annotazione, fe := ctrl.carica(c)
	if fe != nil {
		return fe
	}

	var req dto.AnnotazioneRequest
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

	esito, err := ctrl.Registro.AzioneAnnotazione(tx, regservice.AzioneModifica, cap, annotazione)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if esito.Permesso && annotazione.AnnotazioneVisibile {
		// anche il collaboratore bacheca deve acconsentire
		var avviso *model.AvvisoModel
		if annotazione.AnnotazioneAvvisoID != nil {
			avviso = &model.AvvisoModel{}
			if err := tx.Where("avviso_id = ?", *annotazione.AnnotazioneAvvisoID).Take(avviso).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		esito = ctrl.Note.Avvisi.AzioneAvviso(regservice.AzioneModifica, cap, avviso)
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if req.Visibile {
		nome, err := ctrl.Note.ContieneNomiAlunni(tx, data, annotazione.AnnotazioneClasseID, req.Testo)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if nome != nil {
			tx.Rollback()
			return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
				"Il testo visibile alle famiglie contiene il nome di un alunno",
				fiber.Map{"nome": *nome})
		}
	}

	if err := ctrl.Note.ModificaAnnotazione(tx, annotazione, data, req.Testo, req.Visibile); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "annotazioni", "modifica", c.OriginalURL(), fiber.Map{
		"annotazione_id": annotazione.AnnotazioneID,
	})
	return helper.JsonOK(c, "Annotazione aggiornata", dto.FromAnnotazioneModel(*annotazione))
}

/* ===================== DELETE ===================== */
// DELETE /docente/annotazioni/:annotazione_id
func (ctrl *AnnotazioniController) Rimuovi(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	annotazione, fe := ctrl.carica(c)
	if fe != nil {
		return fe
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

	esito, err := ctrl.Registro.AzioneAnnotazione(tx, regservice.AzioneCancella, cap, annotazione)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Note.RimuoviAnnotazione(tx, annotazione); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "annotazioni", "rimuovi", c.OriginalURL(), fiber.Map{
		"annotazione_id": annotazione.AnnotazioneID,
	})
	return helper.JsonOK(c, "Annotazione rimossa", nil)
}

/* ===== interni ===== */

func (ctrl *AnnotazioniController) carica(c *fiber.Ctx) (*model.AnnotazioneModel, error) {
	annotazioneID, err := uuid.Parse(c.Params("annotazione_id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}
	var annotazione model.AnnotazioneModel
	err = ctrl.DB.Where("annotazione_id = ?", annotazioneID).Take(&annotazione).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Annotazione non trovata")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &annotazione, nil
}

func (ctrl *AnnotazioniController) notificaFamiglie(annotazione *model.AnnotazioneModel) {
	alunni, err := ctrl.Anagrafica.AlunniInData(nil, annotazione.AnnotazioneData, annotazione.AnnotazioneClasseID)
	if err != nil {
		return
	}
	destinatari := make([]uuid.UUID, 0, len(alunni))
	for _, a := range alunni {
		destinatari = append(destinatari, a.AlunnoID)
	}
	ctrl.Audit.Notifica(destinatari, "annotazione", fiber.Map{
		"annotazione_id": annotazione.AnnotazioneID,
		"data":           helper.DataStr(annotazione.AnnotazioneData),
	})
}
