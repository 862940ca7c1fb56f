// 📁 controller/ws_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"kosanku_backend/internals/configs"
	"kosanku_backend/internals/constants"
	notificationService "kosanku_backend/internals/features/notifications/service"
)

// WsUpgradeMiddleware memvalidasi bearer token saat handshake (query ?token=
// atau header Authorization) lalu menolak request non-websocket.
func WsUpgradeMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token tidak ada")
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token tidak valid")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user ID tidak valid")
	}

	role, _ := claims["role"].(string)
	c.Locals("ws_user_id", userID)
	c.Locals("ws_is_admin", role == constants.RoleAdmin)
	return c.Next()
}

// HandleWs mendaftarkan koneksi ke hub (channel per-user + channel admin
// kalau admin) lalu menahan read-loop sampai client menutup koneksi.
func HandleWs() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("ws_user_id").(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}
		isAdmin, _ := conn.Locals("ws_is_admin").(bool)

		notificationService.Hub.Register(userID, isAdmin, conn)
		defer notificationService.Hub.Unregister(userID, conn)

		// read-loop: payload masuk diabaikan, hanya untuk deteksi close/ping
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[WS] koneksi user %s putus: %v", userID, err)
				}
				break
			}
		}
	})
}
