// 📁 controller/user_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userModel "kosanku_backend/internals/features/users/user/model"
	helper "kosanku_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// 🟢 UPDATE PUSH TOKEN: device mendaftarkan Expo push token miliknya.
// Kirim push_token kosong/null untuk unregister (mis. saat logout di device).
func (ctrl *UserController) UpdatePushToken(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var body struct {
		PushToken *string `json:"push_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Request tidak valid")
	}

	var token *string
	if body.PushToken != nil {
		trimmed := strings.TrimSpace(*body.PushToken)
		if trimmed != "" {
			if !strings.HasPrefix(trimmed, "ExponentPushToken[") {
				return helper.JsonError(c, fiber.StatusBadRequest, "Format push token tidak valid")
			}
			token = &trimmed
		}
	}

	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("push_token", token).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan push token")
	}

	return helper.JsonUpdated(c, "Push token diperbarui", nil)
}

// 🟢 LIST USERS (admin): dipakai saat menghubungkan tenant ke akun user.
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&userModel.UserModel{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung user")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar user")
	}

	return helper.JsonList(c, "", users, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// 🟢 SET ACTIVE (admin): aktif/nonaktifkan akun user.
func (ctrl *UserController) SetActive(c *fiber.Ctx) error {
	id := c.Params("id")

	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&body); err != nil || body.IsActive == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Field is_active wajib diisi")
	}

	res := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ?", id).
		Update("is_active", *body.IsActive)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah status user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	return helper.JsonUpdated(c, "Status user diperbarui", nil)
}
