package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	userController "kosanku_backend/internals/features/users/user/controller"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func UserRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	users := app.Group("/api/users", authMiddleware.AuthMiddleware(db))
	users.Put("/push-token", ctrl.UpdatePushToken)

	admin := users.Group("/",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen user"), constants.RoleAdmin))
	admin.Get("/", ctrl.ListUsers)
	admin.Patch("/:id/active", ctrl.SetActive)
}
