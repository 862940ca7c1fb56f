package route

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kosanku_backend/internals/configs"
	database "kosanku_backend/internals/databases"
	userModel "kosanku_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUserWithToken(t *testing.T, db *gorm.DB, name, role string) (userModel.UserModel, string) {
	t.Helper()
	user := userModel.UserModel{
		UserName: name,
		Email:    name + "@example.com",
		Password: "hashed-not-relevant",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ":       "access",
		"jti":       uuid.NewString(),
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	}).SignedString([]byte(configs.JWTSecret))
	require.NoError(t, err)

	return user, token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Laporan billing bisa diakses user biasa (hasil di-scope service per actor);
// endpoint mutasi tetap admin-only.
func TestBillingRouteRoleGuards(t *testing.T) {
	prevSecret := configs.JWTSecret
	configs.JWTSecret = "route-test-secret"
	t.Cleanup(func() { configs.JWTSecret = prevSecret })

	db := newTestDB(t)
	app := fiber.New()
	BillingRoutes(app, db)

	_, userToken := seedUserWithToken(t, db, "budi", "user")
	_, adminToken := seedUserWithToken(t, db, "admin", "admin")

	t.Run("reports terbuka untuk user biasa", func(t *testing.T) {
		for _, path := range []string{
			"/api/billing/reports/summary",
			"/api/billing/reports/yearly",
		} {
			resp := doRequest(t, app, http.MethodGet, path, userToken)
			require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("reports untuk admin juga jalan", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/billing/reports/summary", adminToken)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("generate tetap admin-only", func(t *testing.T) {
		path := "/api/billing/generate/" + uuid.NewString()
		resp := doRequest(t, app, http.MethodPost, path, userToken)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("payment-status tetap admin-only", func(t *testing.T) {
		path := "/api/billing/" + uuid.NewString() + "/payment-status"
		resp := doRequest(t, app, http.MethodPut, path, userToken)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("tanpa token ditolak", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/billing/reports/summary", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
