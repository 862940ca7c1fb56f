package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	billingController "kosanku_backend/internals/features/billing/controller"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func BillingRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := billingController.NewBillingController(db)

	// Webhook Midtrans: public, dikecualikan dari AuthMiddleware lewat skipPaths
	app.Post("/api/billing/notification", ctrl.HandleMidtransNotification)

	billing := app.Group("/api/billing", authMiddleware.AuthMiddleware(db))
	billing.Get("/", ctrl.ListBillings)
	billing.Get("/room/:roomId/history", ctrl.GetRoomBillingHistory)

	// laporan bukan admin-only: service sudah men-scope per actor
	// (admin semua kamar, user hanya kamar tenant aktifnya)
	billing.Get("/reports/summary", ctrl.GetFinancialSummary)
	billing.Get("/reports/monthly", ctrl.GetMonthlyReport)
	billing.Get("/reports/yearly", ctrl.GetYearlyReport)

	admin := billing.Group("/",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("billing"), constants.RoleAdmin))
	admin.Post("/generate/:readingId", ctrl.GenerateBilling)
	admin.Put("/:id/payment-status", ctrl.UpdatePaymentStatus)

	billing.Get("/:id", ctrl.GetBilling)
}
