package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	settingController "kosanku_backend/internals/features/settings/controller"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func SettingsRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := settingController.NewBillingRateController(db)

	settings := app.Group("/api/settings", authMiddleware.AuthMiddleware(db))
	settings.Get("/billing-rates", ctrl.GetRates)
	settings.Put("/billing-rates",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("pengaturan tarif"), constants.RoleAdmin),
		ctrl.UpdateRates)
}
