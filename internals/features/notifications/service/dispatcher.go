package service

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kosanku_backend/internals/constants"
	notificationModel "kosanku_backend/internals/features/notifications/model"
	userModel "kosanku_backend/internals/features/users/user/model"
)

// pushSender bisa dioverride di test (default: Expo push).
var pushSender = SendExpoPush

// NotifyAdmins fan-out ke semua user admin aktif.
func NotifyAdmins(db *gorm.DB, title, message, ntype string, data map[string]any) {
	var admins []userModel.UserModel
	if err := db.Where("role = ? AND is_active = ?", constants.RoleAdmin, true).Find(&admins).Error; err != nil {
		log.Printf("[NOTIF] gagal ambil daftar admin: %v", err)
		return
	}
	deliver(db, admins, title, message, ntype, data)

	// channel admin bersama dapat event walaupun tidak sedang join channel user
	Hub.EmitToAdmins(EventNotificationNew, map[string]any{
		"title": title, "message": message, "type": ntype, "data": data,
	})
}

// NotifyRoomOccupants fan-out ke semua user yang terhubung dengan tenant
// aktif kamar tsb.
func NotifyRoomOccupants(db *gorm.DB, roomID uuid.UUID, title, message, ntype string, data map[string]any) {
	var occupants []userModel.UserModel
	err := db.
		Joins("JOIN tenants ON tenants.tenant_user_id = users.id").
		Where("tenants.tenant_room_id = ? AND tenants.tenant_is_active = ? AND tenants.deleted_at IS NULL", roomID, true).
		Where("users.is_active = ?", true).
		Find(&occupants).Error
	if err != nil {
		log.Printf("[NOTIF] gagal ambil penghuni kamar %s: %v", roomID, err)
		return
	}
	deliver(db, occupants, title, message, ntype, data)
}

// NotifyUser fan-out ke satu user.
func NotifyUser(db *gorm.DB, userID uuid.UUID, title, message, ntype string, data map[string]any) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("[NOTIF] user %s tidak ditemukan: %v", userID, err)
		return
	}
	deliver(db, []userModel.UserModel{user}, title, message, ntype, data)
}

// deliver menulis history + kirim push + emit socket per penerima.
// History SELALU ditulis dulu; kegagalan push/socket satu penerima hanya
// di-log dan tidak menghentikan penerima lain.
func deliver(db *gorm.DB, recipients []userModel.UserModel, title, message, ntype string, data map[string]any) {
	var rawData datatypes.JSON
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			rawData = datatypes.JSON(b)
		}
	}

	for _, user := range recipients {
		notif := notificationModel.NotificationModel{
			NotificationUserID:  user.ID,
			NotificationTitle:   title,
			NotificationMessage: message,
			NotificationType:    ntype,
			NotificationData:    rawData,
		}
		if err := db.Create(&notif).Error; err != nil {
			log.Printf("[NOTIF] gagal simpan history untuk user %s: %v", user.ID, err)
			continue
		}

		if user.PushToken != nil && *user.PushToken != "" {
			if err := pushSender(*user.PushToken, title, message, data); err != nil {
				log.Printf("[NOTIF] push ke user %s gagal: %v", user.ID, err)
			}
		}

		Hub.EmitToUser(user.ID, EventNotificationNew, notif)
	}
}
