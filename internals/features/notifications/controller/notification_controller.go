// 📁 controller/notification_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "kosanku_backend/internals/helpers"

	notificationModel "kosanku_backend/internals/features/notifications/model"
	notificationService "kosanku_backend/internals/features/notifications/service"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// 🟢 LIST NOTIFICATIONS: history milik caller + unread count
func (ctrl *NotificationController) ListNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	query := ctrl.DB.Model(&notificationModel.NotificationModel{}).
		Where("notification_user_id = ?", userID)
	if c.QueryBool("unread_only") {
		query = query.Where("notification_is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	paging := helper.ResolvePaging(c, 20, 100)
	var notifs []notificationModel.NotificationModel
	if err := query.Order("created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&notifs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var unread int64
	if err := ctrl.DB.Model(&notificationModel.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "ok",
		"data":         notifs,
		"unread_count": unread,
		"pagination":   helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

// 🟢 MARK READ: tandai satu notifikasi terbaca (hanya milik sendiri)
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID notifikasi tidak valid")
	}

	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var notif notificationModel.NotificationModel
	if err := ctrl.DB.
		Where("notification_id = ? AND notification_user_id = ?", notifID, userID).
		First(&notif).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if !notif.NotificationIsRead {
		notif.NotificationIsRead = true
		if err := ctrl.DB.Save(&notif).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		notificationService.Hub.EmitToUser(userID, notificationService.EventNotificationUpdate, notif)
	}

	return helper.JsonUpdated(c, "Notifikasi ditandai terbaca", notif)
}

// 🟢 MARK ALL READ
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.Model(&notificationModel.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = ?", userID, false).
		Update("notification_is_read", true)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}

	if res.RowsAffected > 0 {
		notificationService.Hub.EmitToUser(userID, notificationService.EventNotificationBulkUpdate, fiber.Map{
			"marked_read": res.RowsAffected,
		})
	}

	return helper.JsonUpdated(c, "Semua notifikasi ditandai terbaca", fiber.Map{
		"marked_read": res.RowsAffected,
	})
}
