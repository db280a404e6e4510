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

type NoteController struct {
	DB         *gorm.DB
	Note       *service.NoteService
	Registro   *regservice.RegistroService
	Anagrafica *anagservice.AnagraficaService
	Audit      *auditservice.AuditService
}

func NewNoteController(db *gorm.DB) *NoteController {
	return &NoteController{
		DB:         db,
		Note:       service.New(db),
		Registro:   regservice.New(db),
		Anagrafica: anagservice.New(db),
		Audit:      auditservice.New(db),
	}
}

/* ===================== CREATE ===================== */
// POST /docente/note
func (ctrl *NoteController) Crea(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	var req dto.NotaRequest
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
	if req.Tipo == model.NotaIndividuale && len(req.Alunni) == 0 {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
			"Una nota individuale richiede almeno un alunno",
			fiber.Map{"motivo": regservice.MotivoFiltroDestinatari})
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

	nota := model.NotaModel{
		NotaTipo:      req.Tipo,
		NotaClasseID:  req.ClasseID,
		NotaData:      data,
		NotaDocenteID: docenteID,
		NotaTesto:     req.Testo,
	}
	esito, err := ctrl.Registro.AzioneNota(tx, regservice.AzioneAggiungi, cap, &nota)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	// i destinatari devono appartenere alla classe alla data
	for _, alunnoID := range req.Alunni {
		classe, err := ctrl.Anagrafica.ClasseInData(tx, data, alunnoID)
		if err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if classe == nil || *classe != req.ClasseID {
			tx.Rollback()
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
				regservice.MotivoFiltroDestinatari.Messaggio(),
				fiber.Map{"motivo": regservice.MotivoFiltroDestinatari, "alunno_id": alunnoID})
		}
	}

	if err := ctrl.Note.CreaNota(tx, &nota, req.Alunni); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "note", "crea", c.OriginalURL(), fiber.Map{
		"nota_id": nota.NotaID,
		"tipo":    nota.NotaTipo,
	})
	if len(req.Alunni) > 0 {
		ctrl.Audit.Notifica(req.Alunni, "nota", fiber.Map{"nota_id": nota.NotaID})
	}
	return helper.JsonCreated(c, "Nota registrata", dto.FromNotaModel(nota))
}

/* ===================== UPDATE ===================== */
// PUT /docente/note/:nota_id
func (ctrl *NoteController) Modifica(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	nota, fe := ctrl.carica(c)
	if fe != nil {
		return fe
	}

	var req dto.ModificaNotaRequest
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

	esito, err := ctrl.Registro.AzioneNota(tx, regservice.AzioneModifica, cap, nota)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Note.ModificaNota(tx, nota, req.Testo, req.Alunni); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "note", "modifica", c.OriginalURL(), fiber.Map{
		"nota_id": nota.NotaID,
	})
	return helper.JsonOK(c, "Nota aggiornata", fiber.Map{"nota_id": nota.NotaID})
}

/* ===================== DELETE ===================== */
// DELETE /docente/note/:nota_id
func (ctrl *NoteController) Rimuovi(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	nota, fe := ctrl.carica(c)
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

	esito, err := ctrl.Registro.AzioneNota(tx, regservice.AzioneCancella, cap, nota)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Note.RimuoviNota(tx, nota.NotaID); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "note", "rimuovi", c.OriginalURL(), fiber.Map{
		"nota_id": nota.NotaID,
	})
	return helper.JsonOK(c, "Nota rimossa", nil)
}

/* ===================== ANNULLA ===================== */
// PATCH /docente/note/:nota_id/annulla
func (ctrl *NoteController) Annulla(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	nota, fe := ctrl.carica(c)
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

	esito, err := ctrl.Registro.AzioneNota(tx, regservice.AzioneAnnulla, cap, nota)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Note.AnnullaNota(tx, nota.NotaID); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "note", "annulla", c.OriginalURL(), fiber.Map{
		"nota_id": nota.NotaID,
	})
	return helper.JsonOK(c, "Nota annullata", nil)
}

/* ===================== PROVVEDIMENTO ===================== */
// PATCH /docente/note/:nota_id/provvedimento
func (ctrl *NoteController) Provvedimento(c *fiber.Ctx) error {
	docenteID, err := helper.GetDocenteIDFromToken(c)
	if err != nil {
		return err
	}
	cap := regservice.NuovaCapacita(docenteID, helper.GetRuoliFromToken(c))

	nota, fe := ctrl.carica(c)
	if fe != nil {
		return fe
	}

	var req dto.ProvvedimentoRequest
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

	esito, err := ctrl.Registro.AzioneNota(tx, regservice.AzioneProvvedimento, cap, nota)
	if err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if !esito.Permesso {
		tx.Rollback()
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			esito.Motivo.Messaggio(), fiber.Map{"motivo": esito.Motivo})
	}

	if err := ctrl.Note.RegistraProvvedimento(tx, nota.NotaID, docenteID, req.Testo); err != nil {
		tx.Rollback()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if err := tx.Commit().Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	ctrl.Audit.LogAzione(&docenteID, c.IP(), "note", "provvedimento", c.OriginalURL(), fiber.Map{
		"nota_id": nota.NotaID,
	})
	return helper.JsonOK(c, "Provvedimento registrato", nil)
}

func (ctrl *NoteController) carica(c *fiber.Ctx) (*model.NotaModel, error) {
	notaID, err := uuid.Parse(c.Params("nota_id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID non valido")
	}
	var nota model.NotaModel
	err = ctrl.DB.Where("nota_id = ?", notaID).Take(&nota).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Nota non trovata")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &nota, nil
}
