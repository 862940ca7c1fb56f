package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	readingController "kosanku_backend/internals/features/readings/controller"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func ReadingRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := readingController.NewReadingController(db)

	readings := app.Group("/api/readings", authMiddleware.AuthMiddleware(db))

	readings.Post("/", ctrl.CreateReading)
	readings.Get("/", ctrl.ListReadings)
	readings.Post("/preview", ctrl.PreviewCalculation)
	readings.Post("/upload-photo", ctrl.UploadPhoto)
	readings.Get("/room/:roomId/history", ctrl.GetRoomHistory)
	readings.Get("/:id", ctrl.GetReading)
	readings.Put("/:id", ctrl.UpdateReading)

	// Approve/reject hanya admin
	admin := readings.Group("/",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("approval meteran"), constants.RoleAdmin))
	admin.Post("/:id/approve", ctrl.ApproveReading)
	admin.Post("/:id/reject", ctrl.RejectReading)
}
