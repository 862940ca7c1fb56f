package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "kosanku_backend/internals/databases"
	notificationModel "kosanku_backend/internals/features/notifications/model"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
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

func seedUser(t *testing.T, db *gorm.DB, name, role string, pushToken *string) userModel.UserModel {
	t.Helper()
	user := userModel.UserModel{
		UserName:  name,
		Email:     name + "@example.com",
		Password:  "hashed-not-relevant",
		Role:      role,
		IsActive:  true,
		PushToken: pushToken,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRoomWithOccupant(t *testing.T, db *gorm.DB, number int, userID uuid.UUID) roomModel.RoomModel {
	t.Helper()
	room := roomModel.RoomModel{RoomNumber: number, RoomFloor: 1, RoomBaseRent: 800_000, RoomMaxTenants: 2}
	require.NoError(t, db.Create(&room).Error)
	tenant := tenantModel.TenantModel{
		TenantName:     "Penghuni " + userID.String()[:8],
		TenantRoomID:   room.RoomID,
		TenantUserID:   &userID,
		TenantIsActive: true,
		TenantMoveInAt: time.Now(),
	}
	require.NoError(t, db.Create(&tenant).Error)
	return room
}

type pushCall struct {
	token, title, message string
}

// ganti pushSender dengan recorder, balikin yang asli setelah test
func capturePush(t *testing.T) *[]pushCall {
	t.Helper()
	var calls []pushCall
	orig := pushSender
	pushSender = func(token, title, message string, data map[string]any) error {
		calls = append(calls, pushCall{token, title, message})
		return nil
	}
	t.Cleanup(func() { pushSender = orig })
	return &calls
}

func notifsFor(t *testing.T, db *gorm.DB, userID uuid.UUID) []notificationModel.NotificationModel {
	t.Helper()
	var rows []notificationModel.NotificationModel
	require.NoError(t, db.Where("notification_user_id = ?", userID).Find(&rows).Error)
	return rows
}

func TestNotifyUser(t *testing.T) {
	db := newTestDB(t)
	calls := capturePush(t)

	token := "ExponentPushToken[abc123]"
	withPush := seedUser(t, db, "budi", "user", &token)
	withoutPush := seedUser(t, db, "siti", "user", nil)

	NotifyUser(db, withPush.ID, "Judul", "Isi pesan", notificationModel.NotificationTypeReadingApproved,
		map[string]any{"reading_id": uuid.NewString()})
	NotifyUser(db, withoutPush.ID, "Judul", "Isi pesan", notificationModel.NotificationTypeReadingApproved, nil)

	// history SELALU ditulis, push hanya untuk yang punya token
	rows := notifsFor(t, db, withPush.ID)
	require.Len(t, rows, 1)
	require.Equal(t, "Judul", rows[0].NotificationTitle)
	require.Equal(t, notificationModel.NotificationTypeReadingApproved, rows[0].NotificationType)
	require.False(t, rows[0].NotificationIsRead)

	require.Len(t, notifsFor(t, db, withoutPush.ID), 1)

	require.Len(t, *calls, 1)
	require.Equal(t, token, (*calls)[0].token)
	require.Equal(t, "Judul", (*calls)[0].title)
}

func TestNotifyUserUnknownIsNoop(t *testing.T) {
	db := newTestDB(t)
	calls := capturePush(t)

	NotifyUser(db, uuid.New(), "Judul", "Isi", notificationModel.NotificationTypeReadingRejected, nil)

	var count int64
	require.NoError(t, db.Model(&notificationModel.NotificationModel{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, *calls)
}

func TestNotifyAdmins(t *testing.T) {
	db := newTestDB(t)
	capturePush(t)

	admin1 := seedUser(t, db, "admin1", "admin", nil)
	admin2 := seedUser(t, db, "admin2", "admin", nil)
	regular := seedUser(t, db, "budi", "user", nil)

	// admin nonaktif tidak dapat apa-apa
	inactive := seedUser(t, db, "admin3", "admin", nil)
	require.NoError(t, db.Model(&inactive).Update("is_active", false).Error)

	NotifyAdmins(db, "Setoran baru", "Ada setoran meteran baru",
		notificationModel.NotificationTypeReadingSubmitted, nil)

	require.Len(t, notifsFor(t, db, admin1.ID), 1)
	require.Len(t, notifsFor(t, db, admin2.ID), 1)
	require.Empty(t, notifsFor(t, db, regular.ID))
	require.Empty(t, notifsFor(t, db, inactive.ID))
}

func TestNotifyRoomOccupants(t *testing.T) {
	db := newTestDB(t)
	capturePush(t)

	occupant := seedUser(t, db, "budi", "user", nil)
	former := seedUser(t, db, "siti", "user", nil)
	outsider := seedUser(t, db, "tamu", "user", nil)

	room := seedRoomWithOccupant(t, db, 301, occupant.ID)

	// mantan penghuni: tenant nonaktif
	moveOut := time.Now()
	formerTenant := tenantModel.TenantModel{
		TenantName:      "Mantan",
		TenantRoomID:    room.RoomID,
		TenantUserID:    &former.ID,
		TenantIsActive:  false,
		TenantMoveInAt:  time.Now().AddDate(0, -6, 0),
		TenantMoveOutAt: &moveOut,
	}
	require.NoError(t, db.Create(&formerTenant).Error)

	// status nonaktif harus benar-benar tersimpan (bool zero-value)
	var storedFormer tenantModel.TenantModel
	require.NoError(t, db.First(&storedFormer, "tenant_id = ?", formerTenant.TenantID).Error)
	require.False(t, storedFormer.TenantIsActive)

	NotifyRoomOccupants(db, room.RoomID, "Tagihan terbit", "Tagihan bulan ini sudah terbit",
		notificationModel.NotificationTypeBillingCreated, map[string]any{"room_id": room.RoomID.String()})

	require.Len(t, notifsFor(t, db, occupant.ID), 1)
	require.Empty(t, notifsFor(t, db, former.ID))
	require.Empty(t, notifsFor(t, db, outsider.ID))
}
