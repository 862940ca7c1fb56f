package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	roomController "kosanku_backend/internals/features/rentals/rooms/controller"
	tenantController "kosanku_backend/internals/features/rentals/tenants/controller"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func RentalRoutes(app *fiber.App, db *gorm.DB) {
	roomCtrl := roomController.NewRoomController(db)
	tenantCtrl := tenantController.NewTenantController(db)

	rooms := app.Group("/api/rooms", authMiddleware.AuthMiddleware(db))
	rooms.Get("/", roomCtrl.ListRooms)
	rooms.Get("/:id", roomCtrl.GetRoom)

	roomsAdmin := rooms.Group("/",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen kamar"), constants.RoleAdmin))
	roomsAdmin.Post("/", roomCtrl.CreateRoom)
	roomsAdmin.Put("/:id", roomCtrl.UpdateRoom)
	roomsAdmin.Delete("/:id", roomCtrl.DeleteRoom)

	// Tenant management: admin only
	tenants := app.Group("/api/tenants",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("manajemen penghuni"), constants.RoleAdmin))
	tenants.Post("/", tenantCtrl.CreateTenant)
	tenants.Get("/", tenantCtrl.ListTenants)
	tenants.Put("/:id", tenantCtrl.UpdateTenant)
	tenants.Delete("/:id", tenantCtrl.DeleteTenant)
}
