package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"scuoladigitale_backend/internals/constants"
	authMiddleware "scuoladigitale_backend/internals/middlewares/auth"
	routeDetails "scuoladigitale_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              os.Getenv("JWT_SECRET"),
		AllowCookieFallback: true,
	})

	// ===================== DOCENTE =====================
	log.Println("[INFO] Setting up DOCENTE group...")
	docente := app.Group("/api/docente",
		auth,
		authMiddleware.OnlyRoles(constants.ErrSoloDocenti, constants.DocentiAndAbove...),
	)
	routeDetails.DocenteRoutes(docente, db)

	// ===================== STAFF =====================
	log.Println("[INFO] Setting up STAFF group...")
	staff := app.Group("/api/staff",
		auth,
		authMiddleware.OnlyRoles(constants.ErrSoloStaff, constants.StaffAndAbove...),
	)
	routeDetails.StaffRoutes(staff, db)
}
