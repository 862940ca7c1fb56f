package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	billingService "kosanku_backend/internals/features/billing/service"
)

// StartBillingScheduler menjalankan housekeeping billing harian:
// 1. tandai billing unpaid yang melewati masa tenggang jadi overdue
// 2. rekonsiliasi reading approved yang billingnya belum terbentuk
func StartBillingScheduler(db *gorm.DB) {
	go func() {
		graceDays := 10
		if val := os.Getenv("BILLING_GRACE_DAYS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				graceDays = parsed
			}
		}

		for {
			log.Println("[BILLING-JOB] Menjalankan penandaan overdue...")
			if affected, err := billingService.MarkOverduePayments(db, graceDays); err != nil {
				log.Printf("[BILLING-JOB ERROR] Gagal tandai overdue: %v", err)
			} else if affected > 0 {
				log.Printf("[BILLING-JOB] %d billing ditandai overdue", affected)
			} else {
				log.Println("[BILLING-JOB] Tidak ada billing yang melewati masa tenggang")
			}

			log.Println("[BILLING-JOB] Menjalankan rekonsiliasi billing...")
			if created, err := billingService.ReconcileMissingBillings(db); err != nil {
				log.Printf("[BILLING-JOB ERROR] Rekonsiliasi gagal: %v", err)
			} else if created > 0 {
				log.Printf("[BILLING-JOB] %d billing susulan dibuat", created)
			}

			// Jalankan tiap 24 jam
			time.Sleep(24 * time.Hour)
		}
	}()
}
