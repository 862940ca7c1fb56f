package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	notificationController "kosanku_backend/internals/features/notifications/controller"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func NotificationRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := notificationController.NewNotificationController(db)

	notifications := app.Group("/api/notifications", authMiddleware.AuthMiddleware(db))
	notifications.Get("/", ctrl.ListNotifications)
	notifications.Put("/read-all", ctrl.MarkAllRead)
	notifications.Put("/:id/read", ctrl.MarkRead)

	// WebSocket realtime: auth lewat query ?token= atau Authorization header
	app.Use("/ws", notificationController.WsUpgradeMiddleware)
	app.Get("/ws", notificationController.HandleWs())
}
