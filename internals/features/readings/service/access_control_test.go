package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	readingModel "kosanku_backend/internals/features/readings/model"
)

func TestCheckAccessFlags(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	owner := seedUser(t, db, "budi", "user")
	roommate := seedUser(t, db, "siti", "user")
	outsider := seedUser(t, db, "tamu", "user")
	room := seedRoom(t, db, 201, 900_000)
	seedTenant(t, db, room.RoomID, owner.ID)
	seedTenant(t, db, room.RoomID, roommate.ID)

	reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), owner.ID, "user")
	require.NoError(t, err)

	t.Run("admin", func(t *testing.T) {
		access, _, err := CheckAccess(db, reading.ReadingID, admin.ID, "admin")
		require.NoError(t, err)
		require.True(t, access.IsAdmin)
		require.False(t, access.IsOwner)
		require.True(t, access.CanView)
		require.True(t, access.CanEdit)
		require.True(t, access.CanApprove)
		require.True(t, access.CanReject)
	})

	t.Run("owner pada pending", func(t *testing.T) {
		access, _, err := CheckAccess(db, reading.ReadingID, owner.ID, "user")
		require.NoError(t, err)
		require.True(t, access.IsOwner)
		require.True(t, access.CanView)
		require.True(t, access.CanEdit)
		require.False(t, access.CanApprove)
		require.False(t, access.CanReject)
	})

	t.Run("teman sekamar: lihat boleh, ubah tidak", func(t *testing.T) {
		access, _, err := CheckAccess(db, reading.ReadingID, roommate.ID, "user")
		require.NoError(t, err)
		require.False(t, access.IsOwner)
		require.True(t, access.CanView)
		require.False(t, access.CanEdit)
	})

	t.Run("bukan penghuni: semua flag false", func(t *testing.T) {
		access, _, err := CheckAccess(db, reading.ReadingID, outsider.ID, "user")
		require.NoError(t, err)
		require.False(t, access.CanView)
		require.False(t, access.CanEdit)
		require.False(t, access.CanApprove)
		require.False(t, access.CanReject)
	})

	t.Run("reading tidak ada", func(t *testing.T) {
		_, _, err := CheckAccess(db, uuid.New(), admin.ID, "admin")
		require.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
	})

	t.Run("owner kehilangan edit setelah approved", func(t *testing.T) {
		_, err := ApproveReading(db, reading.ReadingID, admin.ID, "admin")
		require.NoError(t, err)

		access, _, err := CheckAccess(db, reading.ReadingID, owner.ID, "user")
		require.NoError(t, err)
		require.True(t, access.CanView)
		require.False(t, access.CanEdit)
		require.Equal(t, readingModel.ReadingStatusApproved, access.Status)
	})
}

func TestValidateModificationMessages(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	owner := seedUser(t, db, "budi", "user")
	roommate := seedUser(t, db, "siti", "user")
	outsider := seedUser(t, db, "tamu", "user")
	room := seedRoom(t, db, 202, 900_000)
	seedTenant(t, db, room.RoomID, owner.ID)
	seedTenant(t, db, room.RoomID, roommate.ID)

	reading, err := CreateReading(db, createRequest(room.RoomID, 1, 2025, 10, 100), owner.ID, "user")
	require.NoError(t, err)

	// pesan dibedakan per alasan supaya client bisa menampilkan apa adanya
	_, err = ValidateModification(db, reading.ReadingID, outsider.ID, "user")
	require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
	require.Contains(t, err.Error(), "akses ke kamar")

	_, err = ValidateModification(db, reading.ReadingID, roommate.ID, "user")
	require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
	require.Contains(t, err.Error(), "pengirim")

	_, err = ApproveReading(db, reading.ReadingID, admin.ID, "admin")
	require.NoError(t, err)

	_, err = ValidateModification(db, reading.ReadingID, owner.ID, "user")
	require.Equal(t, fiber.StatusForbidden, fiberCode(t, err))
	require.Contains(t, err.Error(), "approved")

	// admin tetap boleh
	_, err = ValidateModification(db, reading.ReadingID, admin.ID, "admin")
	require.NoError(t, err)
}

func TestHasRoomAccess(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", "admin")
	occupant := seedUser(t, db, "budi", "user")
	room := seedRoom(t, db, 203, 900_000)
	tenant := seedTenant(t, db, room.RoomID, occupant.ID)

	ok, err := HasRoomAccess(db, admin.ID, "admin", room.RoomID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = HasRoomAccess(db, occupant.ID, "user", room.RoomID)
	require.NoError(t, err)
	require.True(t, ok)

	// tenant nonaktif = akses hilang
	require.NoError(t, db.Model(&tenant).Update("tenant_is_active", false).Error)
	ok, err = HasRoomAccess(db, occupant.ID, "user", room.RoomID)
	require.NoError(t, err)
	require.False(t, ok)
}
