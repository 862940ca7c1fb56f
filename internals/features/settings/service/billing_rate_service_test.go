package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "kosanku_backend/internals/databases"
	settingModel "kosanku_backend/internals/features/settings/model"
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

func TestGetActiveRatesFallback(t *testing.T) {
	db := newTestDB(t)

	rates := GetActiveRates(db)
	require.Equal(t, DefaultRates(), rates)
	require.InDelta(t, 3500, rates.Electricity, 1e-9)
	require.InDelta(t, 22000, rates.Water, 1e-9)
	require.InDelta(t, 52000, rates.TrashFee, 1e-9)
}

func TestUpdateRatesDeactivatesOld(t *testing.T) {
	db := newTestDB(t)

	first, err := UpdateRates(db, BillingRates{Electricity: 4000, Water: 25000, TrashFee: 60000})
	require.NoError(t, err)
	require.True(t, first.RateIsActive)

	second, err := UpdateRates(db, BillingRates{Electricity: 4500, Water: 26000, TrashFee: 65000})
	require.NoError(t, err)

	// hanya satu tarif aktif; yang lama jadi histori
	var activeCount int64
	require.NoError(t, db.Model(&settingModel.BillingRateModel{}).
		Where("rate_is_active = ?", true).Count(&activeCount).Error)
	require.EqualValues(t, 1, activeCount)

	var old settingModel.BillingRateModel
	require.NoError(t, db.First(&old, "rate_id = ?", first.RateID).Error)
	require.False(t, old.RateIsActive)

	var active settingModel.BillingRateModel
	require.NoError(t, db.First(&active, "rate_is_active = ?", true).Error)
	require.Equal(t, second.RateID, active.RateID)

	rates := GetActiveRates(db)
	require.InDelta(t, 4500, rates.Electricity, 1e-9)
	require.InDelta(t, 26000, rates.Water, 1e-9)
	require.InDelta(t, 65000, rates.TrashFee, 1e-9)
}
