package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "kosanku_backend/internals/databases"
	readingModel "kosanku_backend/internals/features/readings/model"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	settingService "kosanku_backend/internals/features/settings/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// :memory: = satu DB per koneksi, jadi pool dikunci ke satu koneksi
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
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

func seedApprovedReading(t *testing.T, db *gorm.DB, roomID uuid.UUID, month, year int, water, electricity float64) readingModel.MeterReadingModel {
	t.Helper()
	reading := readingModel.MeterReadingModel{
		ReadingRoomID:      roomID,
		ReadingMonth:       month,
		ReadingYear:        year,
		ReadingWater:       water,
		ReadingElectricity: electricity,
		ReadingBaseRent:    1_000_000,
		ReadingStatus:      readingModel.ReadingStatusApproved,
		ReadingSubmittedBy: uuid.New(),
	}
	require.NoError(t, db.Create(&reading).Error)
	return reading
}

func TestComputeBreakdown(t *testing.T) {
	rates := settingService.DefaultRates()

	t.Run("dengan reading sebelumnya", func(t *testing.T) {
		prevWater, prevElectricity := 10.0, 200.0
		b := ComputeBreakdown(&prevWater, &prevElectricity, 15.5, 260, 1_000_000, rates)

		require.InDelta(t, 5.5, b.WaterUsage, 1e-9)
		require.InDelta(t, 60.0, b.ElectricityUsage, 1e-9)
		require.InDelta(t, 121_000, b.WaterCost, 1e-9)   // 5.5 * 22000
		require.InDelta(t, 210_000, b.ElectricityCost, 1e-9) // 60 * 3500
		require.InDelta(t, 52_000, b.TrashFee, 1e-9)
		require.InDelta(t, 1_383_000, b.TotalAmount, 1e-9)
	})

	t.Run("reading pertama: usage = nilai mentah", func(t *testing.T) {
		b := ComputeBreakdown(nil, nil, 12.0, 150, 500_000, rates)

		require.InDelta(t, 12.0, b.WaterUsage, 1e-9)
		require.InDelta(t, 150.0, b.ElectricityUsage, 1e-9)
	})

	t.Run("anomali data: usage negatif di-clamp ke nol", func(t *testing.T) {
		prevWater, prevElectricity := 20.0, 300.0
		b := ComputeBreakdown(&prevWater, &prevElectricity, 15.0, 250, 500_000, rates)

		require.Zero(t, b.WaterUsage)
		require.Zero(t, b.ElectricityUsage)
		require.Zero(t, b.WaterCost)
		require.Zero(t, b.ElectricityCost)
		// base rent + trash fee tetap ditagih
		require.InDelta(t, 552_000, b.TotalAmount, 1e-9)
	})

	t.Run("total selalu jumlah komponen", func(t *testing.T) {
		b := ComputeBreakdown(nil, nil, 7.3, 88, 750_000, rates)
		require.InDelta(t, b.WaterCost+b.ElectricityCost+b.BaseRent+b.TrashFee, b.TotalAmount, 1e-9)
	})
}

func TestFindPreviousApprovedReading(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 101, 1_000_000)

	t.Run("belum ada reading", func(t *testing.T) {
		prev, err := FindPreviousApprovedReading(db, room.RoomID, 3, 2025)
		require.NoError(t, err)
		require.Nil(t, prev)
	})

	seedApprovedReading(t, db, room.RoomID, 12, 2024, 5, 100)
	seedApprovedReading(t, db, room.RoomID, 1, 2025, 10, 200)

	// pending tidak dihitung sebagai "sebelumnya"
	pending := readingModel.MeterReadingModel{
		ReadingRoomID:      room.RoomID,
		ReadingMonth:       2,
		ReadingYear:        2025,
		ReadingWater:       99,
		ReadingElectricity: 999,
		ReadingBaseRent:    1_000_000,
		ReadingStatus:      readingModel.ReadingStatusPending,
		ReadingSubmittedBy: uuid.New(),
	}
	require.NoError(t, db.Create(&pending).Error)

	t.Run("ambil approved terakhir sebelum periode", func(t *testing.T) {
		prev, err := FindPreviousApprovedReading(db, room.RoomID, 3, 2025)
		require.NoError(t, err)
		require.NotNil(t, prev)
		require.Equal(t, 1, prev.ReadingMonth)
		require.Equal(t, 2025, prev.ReadingYear)
	})

	t.Run("lintas tahun: Desember sebelum Januari", func(t *testing.T) {
		prev, err := FindPreviousApprovedReading(db, room.RoomID, 1, 2025)
		require.NoError(t, err)
		require.NotNil(t, prev)
		require.Equal(t, 12, prev.ReadingMonth)
		require.Equal(t, 2024, prev.ReadingYear)
	})

	t.Run("periode paling awal tidak punya sebelumnya", func(t *testing.T) {
		prev, err := FindPreviousApprovedReading(db, room.RoomID, 12, 2024)
		require.NoError(t, err)
		require.Nil(t, prev)
	})
}

func TestCalculateBillingUsesActiveRates(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 102, 800_000)
	seedApprovedReading(t, db, room.RoomID, 1, 2025, 10, 100)

	_, err := settingService.UpdateRates(db, settingService.BillingRates{
		Electricity: 4000,
		Water:       25_000,
		TrashFee:    60_000,
	})
	require.NoError(t, err)

	b, err := CalculateBilling(db, room.RoomID, 2, 2025, 14, 160, 800_000)
	require.NoError(t, err)

	require.InDelta(t, 4*25_000, b.WaterCost, 1e-9)
	require.InDelta(t, 60*4000, b.ElectricityCost, 1e-9)
	require.InDelta(t, 60_000, b.TrashFee, 1e-9)
	require.InDelta(t, 100_000+240_000+800_000+60_000, b.TotalAmount, 1e-9)
}
