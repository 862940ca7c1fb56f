package service

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "kosanku_backend/internals/databases"
	billingModel "kosanku_backend/internals/features/billing/model"
	notificationModel "kosanku_backend/internals/features/notifications/model"
	"kosanku_backend/internals/features/readings/dto"
	readingModel "kosanku_backend/internals/features/readings/model"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
	userModel "kosanku_backend/internals/features/users/user/model"
)

// notifikasi jalan sinkron di test supaya bisa di-assert
func init() {
	notifyAsync = func(fn func()) { fn() }
}

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

func seedUser(t *testing.T, db *gorm.DB, name, role string) userModel.UserModel {
	t.Helper()
	user := userModel.UserModel{
		UserName: name,
		Email:    name + "@example.com",
		Password: "hashed-not-relevant",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, number int, baseRent float64) roomModel.RoomModel {
	t.Helper()
	room := roomModel.RoomModel{
		RoomNumber:     number,
		RoomFloor:      1,
		RoomBaseRent:   baseRent,
		RoomMaxTenants: 2,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedTenant(t *testing.T, db *gorm.DB, roomID uuid.UUID, userID uuid.UUID) tenantModel.TenantModel {
	t.Helper()
	tenant := tenantModel.TenantModel{
		TenantName:     "Penghuni " + userID.String()[:8],
		TenantRoomID:   roomID,
		TenantUserID:   &userID,
		TenantIsActive: true,
		TenantMoveInAt: time.Now(),
	}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

func auditRows(t *testing.T, db *gorm.DB, readingID uuid.UUID) []readingModel.ReadingModificationModel {
	t.Helper()
	var mods []readingModel.ReadingModificationModel
	require.NoError(t, db.Where("modification_reading_id = ?", readingID).
		Order("created_at ASC").Find(&mods).Error)
	return mods
}

func createRequest(roomID uuid.UUID, month, year int, water, electricity float64) dto.CreateReadingRequest {
	return dto.CreateReadingRequest{
		RoomID:             roomID,
		Month:              month,
		Year:               year,
		WaterReading:       water,
		ElectricityReading: electricity,
	}
}

/* ===============================
   CREATE
=================================*/

func TestCreateReading(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	occupant := seedUser(t, db, "budi", "user")
	outsider := seedUser(t, db, "tamu", "user")
	room := seedRoom(t, db, 101, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)

	t.Run("happy path", func(t *testing.T) {
		reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
		require.NoError(t, err)
		require.Equal(t, readingModel.ReadingStatusPending, reading.ReadingStatus)
		require.Equal(t, occupant.ID, reading.ReadingSubmittedBy)
		// snapshot base rent kamar, bukan dari client
		require.InDelta(t, 1_000_000, reading.ReadingBaseRent, 1e-9)
		// default rates: 10*22000 + 100*3500 + 1_000_000 + 52_000
		require.InDelta(t, 1_622_000, reading.ReadingTotalAmount, 1e-9)

		mods := auditRows(t, db, reading.ReadingID)
		require.Len(t, mods, 1)
		require.Equal(t, readingModel.ModificationCreate, mods[0].ModificationType)

		// admin diberi tahu (notifyAsync sinkron di test)
		var notifCount int64
		require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
			Where("notification_user_id = ? AND notification_type = ?",
				admin.ID, notificationModel.NotificationTypeReadingSubmitted).
			Count(&notifCount).Error)
		require.EqualValues(t, 1, notifCount)
	})

	t.Run("base rent dari client diabaikan", func(t *testing.T) {
		req := createRequest(room.RoomID, 2, 2025, 11, 110)
		req.BaseRent = 1 // nilai palsu
		reading, err := CreateReading(db, req, occupant.ID, "user")
		require.NoError(t, err)
		require.InDelta(t, 1_000_000, reading.ReadingBaseRent, 1e-9)
	})

	t.Run("bulan di luar range", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(room.RoomID, 13, 2025, 10, 100), occupant.ID, "user")
		require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("tahun di bawah 2020", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(room.RoomID, 1, 2019, 10, 100), occupant.ID, "user")
		require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("lebih dari satu desimal", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(room.RoomID, 3, 2025, 10.25, 100), occupant.ID, "user")
		require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("nilai negatif", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(room.RoomID, 3, 2025, -1, 100), occupant.ID, "user")
		require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	})

	t.Run("kamar tidak ada", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(uuid.New(), 3, 2025, 10, 100), occupant.ID, "user")
		require.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
	})

	t.Run("bukan penghuni kamar", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(room.RoomID, 3, 2025, 10, 100), outsider.ID, "user")
		require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
	})

	t.Run("admin boleh submit untuk kamar mana pun", func(t *testing.T) {
		_, err := CreateReading(db, createRequest(room.RoomID, 4, 2025, 12, 120), admin.ID, "admin")
		require.NoError(t, err)
	})
}

func TestCreateReadingPeriodConflict(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 102, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)

	first, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)
	_, err = ApproveReading(db, first.ReadingID, admin.ID, "admin")
	require.NoError(t, err)

	// periode yang sudah punya approved → conflict
	_, err = CreateReading(db, createRequest(room.RoomID, 1, 2025, 11, 110), occupant.ID, "user")
	require.Equal(t, fiber.StatusConflict, fiberCode(t, err))

	// periode lain tetap boleh
	_, err = CreateReading(db, createRequest(room.RoomID, 2, 2025, 11, 110), occupant.ID, "user")
	require.NoError(t, err)
}

func TestCreateReadingRegression(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 103, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)

	first, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 50, 500), occupant.ID, "user")
	require.NoError(t, err)
	_, err = ApproveReading(db, first.ReadingID, admin.ID, "admin")
	require.NoError(t, err)

	// meteran hanya naik
	_, err = CreateReading(db, createRequest(room.RoomID, 2, 2025, 40, 600), occupant.ID, "user")
	require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	require.Contains(t, err.Error(), "air")

	_, err = CreateReading(db, createRequest(room.RoomID, 2, 2025, 60, 400), occupant.ID, "user")
	require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
	require.Contains(t, err.Error(), "listrik")

	// sama persis boleh (tidak ada pemakaian)
	_, err = CreateReading(db, createRequest(room.RoomID, 2, 2025, 50, 500), occupant.ID, "user")
	require.NoError(t, err)
}

/* ===============================
   APPROVE / REJECT
=================================*/

func TestApproveReading(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 104, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)

	reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)

	t.Run("non-admin ditolak", func(t *testing.T) {
		_, err := ApproveReading(db, reading.ReadingID, occupant.ID, "user")
		require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
	})

	t.Run("sukses: status + audit + billing + notifikasi", func(t *testing.T) {
		approved, err := ApproveReading(db, reading.ReadingID, admin.ID, "admin")
		require.NoError(t, err)
		require.Equal(t, readingModel.ReadingStatusApproved, approved.ReadingStatus)
		require.NotNil(t, approved.ReadingApprovedBy)
		require.Equal(t, admin.ID, *approved.ReadingApprovedBy)
		require.NotNil(t, approved.ReadingApprovedAt)

		mods := auditRows(t, db, reading.ReadingID)
		require.Len(t, mods, 2) // create + approve
		require.Equal(t, readingModel.ModificationApprove, mods[1].ModificationType)
		require.Equal(t, readingModel.ReadingStatusPending, mods[1].ModificationOldValue)
		require.Equal(t, readingModel.ReadingStatusApproved, mods[1].ModificationNewValue)

		// billing otomatis terbit
		var billingCount int64
		require.NoError(t, db.Model(&billingModel.BillingRecordModel{}).
			Where("billing_reading_id = ?", reading.ReadingID).
			Count(&billingCount).Error)
		require.EqualValues(t, 1, billingCount)

		// penghuni diberi tahu
		var notifCount int64
		require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
			Where("notification_user_id = ? AND notification_type = ?",
				occupant.ID, notificationModel.NotificationTypeReadingApproved).
			Count(&notifCount).Error)
		require.EqualValues(t, 1, notifCount)
	})

	t.Run("approve kedua kali gagal tanpa audit baru", func(t *testing.T) {
		before := len(auditRows(t, db, reading.ReadingID))

		_, err := ApproveReading(db, reading.ReadingID, admin.ID, "admin")
		require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))

		require.Len(t, auditRows(t, db, reading.ReadingID), before)
	})
}

func TestApprovePeriodConflict(t *testing.T) {
	db := newTestDB(t)
	occupantA := seedUser(t, db, "budi", "user")
	occupantB := seedUser(t, db, "siti", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 109, 1_000_000)
	seedTenant(t, db, room.RoomID, occupantA.ID)
	seedTenant(t, db, room.RoomID, occupantB.ID)

	// dua pending untuk periode yang sama boleh hidup berdampingan
	first, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupantA.ID, "user")
	require.NoError(t, err)
	second, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 11, 110), occupantB.ID, "user")
	require.NoError(t, err)

	_, err = ApproveReading(db, first.ReadingID, admin.ID, "admin")
	require.NoError(t, err)

	// approved per periode unik: approve kedua conflict
	_, err = ApproveReading(db, second.ReadingID, admin.ID, "admin")
	require.Equal(t, fiber.StatusConflict, fiberCode(t, err))

	// yang kalah tetap pending, tanpa jejak approve yang setengah jalan
	var loser readingModel.MeterReadingModel
	require.NoError(t, db.First(&loser, "reading_id = ?", second.ReadingID).Error)
	require.Equal(t, readingModel.ReadingStatusPending, loser.ReadingStatus)
	require.Nil(t, loser.ReadingApprovedBy)

	mods := auditRows(t, db, second.ReadingID)
	require.Len(t, mods, 1)
	require.Equal(t, readingModel.ModificationCreate, mods[0].ModificationType)
}

func TestRejectReading(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 105, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)

	reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)

	rejected, err := RejectReading(db, reading.ReadingID, admin.ID, "admin", "Foto meteran buram")
	require.NoError(t, err)
	require.Equal(t, readingModel.ReadingStatusRejected, rejected.ReadingStatus)

	// transisi status dicatat seperti approve, alasan jadi row terpisah
	mods := auditRows(t, db, reading.ReadingID)
	require.Len(t, mods, 3) // create + status + reason
	byField := map[string]readingModel.ReadingModificationModel{}
	for _, m := range mods[1:] {
		require.Equal(t, readingModel.ModificationReject, m.ModificationType)
		byField[m.ModificationField] = m
	}
	require.Equal(t, readingModel.ReadingStatusPending, byField["status"].ModificationOldValue)
	require.Equal(t, readingModel.ReadingStatusRejected, byField["status"].ModificationNewValue)
	require.Equal(t, "Foto meteran buram", byField["reason"].ModificationNewValue)

	// pengirim diberi tahu dengan alasan
	var notif notificationModel.NotificationModel
	require.NoError(t, db.Where("notification_user_id = ? AND notification_type = ?",
		occupant.ID, notificationModel.NotificationTypeReadingRejected).
		First(&notif).Error)
	require.Contains(t, notif.NotificationMessage, "Foto meteran buram")

	// rejected terminal: tidak bisa di-approve
	_, err = ApproveReading(db, reading.ReadingID, admin.ID, "admin")
	require.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))

	// pengajuan ulang periode sama boleh
	resubmit, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)

	// reject tanpa alasan: tidak ada row reason
	_, err = RejectReading(db, resubmit.ReadingID, admin.ID, "admin", "")
	require.NoError(t, err)
	resubmitMods := auditRows(t, db, resubmit.ReadingID)
	require.Len(t, resubmitMods, 2) // create + status
	for _, m := range resubmitMods {
		require.NotEqual(t, "reason", m.ModificationField)
	}
}

/* ===============================
   UPDATE
=================================*/

func TestUpdateReading(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	other := seedUser(t, db, "siti", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 106, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)
	seedTenant(t, db, room.RoomID, other.ID)

	reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)

	t.Run("satu audit row per field yang berubah", func(t *testing.T) {
		newWater := 12.5
		updated, err := UpdateReading(db, reading.ReadingID, dto.UpdateReadingRequest{WaterReading: &newWater}, occupant.ID, "user")
		require.NoError(t, err)
		require.InDelta(t, 12.5, updated.ReadingWater, 1e-9)
		// total dihitung ulang: 12.5*22000 + 100*3500 + 1_000_000 + 52_000
		require.InDelta(t, 1_677_000, updated.ReadingTotalAmount, 1e-9)

		mods := auditRows(t, db, reading.ReadingID)
		require.Len(t, mods, 2) // create + satu update
		last := mods[len(mods)-1]
		require.Equal(t, readingModel.ModificationUpdate, last.ModificationType)
		require.Equal(t, "water_reading", last.ModificationField)
		require.Equal(t, "10.0", last.ModificationOldValue)
		require.Equal(t, "12.5", last.ModificationNewValue)
	})

	t.Run("nilai sama tidak menghasilkan audit", func(t *testing.T) {
		before := len(auditRows(t, db, reading.ReadingID))
		same := 12.5
		_, err := UpdateReading(db, reading.ReadingID, dto.UpdateReadingRequest{WaterReading: &same}, occupant.ID, "user")
		require.NoError(t, err)
		require.Len(t, auditRows(t, db, reading.ReadingID), before)
	})

	t.Run("penghuni lain bukan pengirim ditolak", func(t *testing.T) {
		w := 15.0
		_, err := UpdateReading(db, reading.ReadingID, dto.UpdateReadingRequest{WaterReading: &w}, other.ID, "user")
		require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
	})

	t.Run("pengirim tidak bisa ubah setelah approved, admin bisa (manual_change)", func(t *testing.T) {
		_, err := ApproveReading(db, reading.ReadingID, admin.ID, "admin")
		require.NoError(t, err)

		w := 14.0
		_, err = UpdateReading(db, reading.ReadingID, dto.UpdateReadingRequest{WaterReading: &w}, occupant.ID, "user")
		require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))

		updated, err := UpdateReading(db, reading.ReadingID, dto.UpdateReadingRequest{WaterReading: &w}, admin.ID, "admin")
		require.NoError(t, err)
		require.InDelta(t, 14.0, updated.ReadingWater, 1e-9)

		mods := auditRows(t, db, reading.ReadingID)
		last := mods[len(mods)-1]
		require.Equal(t, readingModel.ModificationManualChange, last.ModificationType)

		// penghuni kamar diberi tahu perubahan admin
		var notifCount int64
		require.NoError(t, db.Model(&notificationModel.NotificationModel{}).
			Where("notification_user_id = ? AND notification_type = ?",
				occupant.ID, notificationModel.NotificationTypeReadingUpdated).
			Count(&notifCount).Error)
		require.EqualValues(t, 1, notifCount)
	})
}

/* ===============================
   QUERY
=================================*/

func TestListReadingsScoping(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	admin := seedUser(t, db, "admin", "admin")
	roomA := seedRoom(t, db, 107, 1_000_000)
	roomB := seedRoom(t, db, 108, 1_000_000)
	seedTenant(t, db, roomA.RoomID, occupant.ID)

	_, err := CreateReading(db, createRequest(roomA.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)
	_, err = CreateReading(db, createRequest(roomB.RoomID, 1, 2025, 10, 100), admin.ID, "admin")
	require.NoError(t, err)

	all, total, err := ListReadings(db, dto.ListReadingsQuery{}, admin.ID, "admin", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, all, 2)

	mine, total, err := ListReadings(db, dto.ListReadingsQuery{}, occupant.ID, "user", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, roomA.RoomID, mine[0].ReadingRoomID)

	status := readingModel.ReadingStatusApproved
	none, total, err := ListReadings(db, dto.ListReadingsQuery{Status: &status}, admin.ID, "admin", 0, 20)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, none)
}

func TestGetReadingWithHistory(t *testing.T) {
	db := newTestDB(t)
	occupant := seedUser(t, db, "budi", "user")
	admin := seedUser(t, db, "admin", "admin")
	room := seedRoom(t, db, 109, 1_000_000)
	seedTenant(t, db, room.RoomID, occupant.ID)

	reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), occupant.ID, "user")
	require.NoError(t, err)
	_, err = ApproveReading(db, reading.ReadingID, admin.ID, "admin")
	require.NoError(t, err)

	got, mods, err := GetReadingWithHistory(db, reading.ReadingID, occupant.ID, "user")
	require.NoError(t, err)
	require.Equal(t, reading.ReadingID, got.ReadingID)
	require.Len(t, mods, 2)
	// urut kronologis
	require.Equal(t, readingModel.ModificationCreate, mods[0].ModificationType)
	require.Equal(t, readingModel.ModificationApprove, mods[1].ModificationType)
}
