package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "kosanku_backend/internals/features/users/auth/controller"
	"kosanku_backend/internals/middlewares"
	authMiddleware "kosanku_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	public := app.Group("/api/auth")
	public.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	public.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	public.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	public.Post("/refresh-token", ctrl.RefreshToken)

	protected := app.Group("/api/auth", authMiddleware.AuthMiddleware(db))
	protected.Post("/logout", ctrl.Logout)
	protected.Get("/me", ctrl.Me)
	protected.Put("/change-password", ctrl.ChangePassword)
}
