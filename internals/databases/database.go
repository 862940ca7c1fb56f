package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kosanku_backend/internals/configs"
	billingModel "kosanku_backend/internals/features/billing/model"
	notificationModel "kosanku_backend/internals/features/notifications/model"
	readingModel "kosanku_backend/internals/features/readings/model"
	roomModel "kosanku_backend/internals/features/rentals/rooms/model"
	tenantModel "kosanku_backend/internals/features/rentals/tenants/model"
	settingModel "kosanku_backend/internals/features/settings/model"
	authModel "kosanku_backend/internals/features/users/auth/model"
	userModel "kosanku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := configs.GetEnv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=kosanku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate menjalankan auto-migration semua tabel + index unik yang menjaga
// invariant inti (satu reading approved per periode, satu billing per reading).
// Index partial dipakai supaya pencegahan duplikat ditegakkan di level storage,
// bukan cuma lewat cek aplikasi yang bisa balapan antar request.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&authModel.RefreshTokenModel{},
		&roomModel.RoomModel{},
		&tenantModel.TenantModel{},
		&settingModel.BillingRateModel{},
		&readingModel.MeterReadingModel{},
		&readingModel.ReadingModificationModel{},
		&billingModel.BillingRecordModel{},
		&notificationModel.NotificationModel{},
	); err != nil {
		return err
	}

	// Maks. satu reading APPROVED per (room, bulan, tahun)
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_readings_approved_per_period
		 ON meter_readings (reading_room_id, reading_month, reading_year)
		 WHERE reading_status = 'approved'`,
	).Error; err != nil {
		return err
	}

	// Maks. satu tenant aktif per user account
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tenants_active_user
		 ON tenants (tenant_user_id)
		 WHERE tenant_user_id IS NOT NULL AND tenant_is_active AND deleted_at IS NULL`,
	).Error; err != nil {
		return err
	}

	return nil
}
