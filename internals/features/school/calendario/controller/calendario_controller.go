package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	service "scuoladigitale_backend/internals/features/school/calendario/service"
	helper "scuoladigitale_backend/internals/helpers"
)

type CalendarioController struct {
	DB         *gorm.DB
	Calendario *service.CalendarioService
}

func NewCalendarioController(db *gorm.DB) *CalendarioController {
	return &CalendarioController{DB: db, Calendario: service.New(db)}
}

/* ===================== READ ===================== */

// GET /docente/calendario/controllo?data=2006-01-02&sede_id=...
func (ctrl *CalendarioController) Controllo(c *fiber.Ctx) error {
	data, sedeID, fe := ctrl.parametri(c)
	if fe != nil {
		return fe
	}
	motivo, err := ctrl.Calendario.ControlloData(nil, data, sedeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Controllo data", fiber.Map{
		"data":    helper.DataStr(data),
		"lezioni": motivo == nil,
		"festivo": motivo,
	})
}

// GET /docente/calendario/festivi?sede_id=...
func (ctrl *CalendarioController) Festivi(c *fiber.Ctx) error {
	var sedeID *uuid.UUID
	if s := c.Query("sede_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sede non valida")
		}
		sedeID = &id
	}
	festivi, err := ctrl.Calendario.ListaFestivi(nil, sedeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Festività", festivi)
}

// GET /docente/calendario/orario?data=...&sede_id=...
func (ctrl *CalendarioController) Orario(c *fiber.Ctx) error {
	data, sedeID, fe := ctrl.parametri(c)
	if fe != nil {
		return fe
	}
	if sedeID == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Sede obbligatoria")
	}
	scansioni, err := ctrl.Calendario.OrarioInData(nil, data, *sedeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Scansione oraria", scansioni)
}

// GET /docente/calendario/periodi
func (ctrl *CalendarioController) Periodi(c *fiber.Ctx) error {
	periodi, err := ctrl.Calendario.InfoPeriodi(nil)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Periodi dell'anno", periodi)
}

// GET /docente/calendario/successivo?data=...&sede_id=...
func (ctrl *CalendarioController) Successivo(c *fiber.Ctx) error {
	return ctrl.adiacente(c, ctrl.Calendario.GiornoSuccessivo)
}

// GET /docente/calendario/precedente?data=...&sede_id=...
func (ctrl *CalendarioController) Precedente(c *fiber.Ctx) error {
	return ctrl.adiacente(c, ctrl.Calendario.GiornoPrecedente)
}

/* ===== interni ===== */

func (ctrl *CalendarioController) adiacente(c *fiber.Ctx,
	scorri func(*gorm.DB, time.Time, *uuid.UUID) (*time.Time, error)) error {
	data, sedeID, fe := ctrl.parametri(c)
	if fe != nil {
		return fe
	}
	giorno, err := scorri(nil, data, sedeID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	var risposta *string
	if giorno != nil {
		s := helper.DataStr(*giorno)
		risposta = &s
	}
	return helper.JsonOK(c, "Giorno di lezione", fiber.Map{"data": risposta})
}

func (ctrl *CalendarioController) parametri(c *fiber.Ctx) (time.Time, *uuid.UUID, error) {
	data := helper.Oggi()
	if s := c.Query("data"); s != "" {
		var err error
		data, err = helper.ParseData(s)
		if err != nil {
			return time.Time{}, nil, fiber.NewError(fiber.StatusBadRequest, "Data non valida")
		}
	}
	var sedeID *uuid.UUID
	if s := c.Query("sede_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return time.Time{}, nil, fiber.NewError(fiber.StatusBadRequest, "Sede non valida")
		}
		sedeID = &id
	}
	return data, sedeID, nil
}
