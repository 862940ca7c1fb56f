// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "kosanku_backend/internals/features/users/auth/route"
	userRoute "kosanku_backend/internals/features/users/user/route"

	billingRoute "kosanku_backend/internals/features/billing/route"
	notificationRoute "kosanku_backend/internals/features/notifications/route"
	readingRoute "kosanku_backend/internals/features/readings/route"
	rentalRoute "kosanku_backend/internals/features/rentals/route"
	settingsRoute "kosanku_backend/internals/features/settings/route"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// Health check (dipakai Railway)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	log.Println("[INFO] Setting up UserRoutes...")
	userRoute.UserRoutes(app, db)

	log.Println("[INFO] Setting up RentalRoutes...")
	rentalRoute.RentalRoutes(app, db)

	log.Println("[INFO] Setting up ReadingRoutes...")
	readingRoute.ReadingRoutes(app, db)

	log.Println("[INFO] Setting up BillingRoutes...")
	billingRoute.BillingRoutes(app, db)

	log.Println("[INFO] Setting up NotificationRoutes...")
	notificationRoute.NotificationRoutes(app, db)

	log.Println("[INFO] Setting up SettingsRoutes...")
	settingsRoute.SettingsRoutes(app, db)
}
