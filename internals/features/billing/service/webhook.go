package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	billingModel "kosanku_backend/internals/features/billing/model"
	notificationModel "kosanku_backend/internals/features/notifications/model"
	notificationService "kosanku_backend/internals/features/notifications/service"
)

// HandleBillingStatusWebhook dipanggil saat menerima notifikasi dari Midtrans.
func HandleBillingStatusWebhook(db *gorm.DB, body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)

	if !ok1 || !ok2 {
		log.Println("[ERROR] Payload webhook tidak lengkap:", body)
		return fmt.Errorf("invalid payload")
	}

	log.Println("📄 Order ID:", orderID)
	log.Println("📌 Transaction Status:", status)

	var rec billingModel.BillingRecordModel
	if err := db.Where("billing_order_id = ?", orderID).First(&rec).Error; err != nil {
		log.Println("[ERROR] Billing tidak ditemukan:", err)
		return fmt.Errorf("billing with order_id %s not found", orderID)
	}

	switch status {
	case "capture", "settlement":
		now := time.Now()
		rec.BillingPaymentStatus = billingModel.PaymentStatusPaid
		rec.BillingPaidAt = &now

		if err := db.Save(&rec).Error; err != nil {
			log.Println("[ERROR] Gagal menyimpan status billing:", err)
			return err
		}

		notificationService.NotifyRoomOccupants(db, rec.BillingRoomID,
			"Pembayaran diterima",
			fmt.Sprintf("Pembayaran tagihan periode %d/%d sudah kami terima. Terima kasih!", rec.BillingMonth, rec.BillingYear),
			notificationModel.NotificationTypePaymentReceived,
			map[string]any{"billing_id": rec.BillingID.String()},
		)

	case "expire", "cancel":
		// tetap unpaid; admin menindaklanjuti manual atau scheduler menandai overdue
		log.Printf("[INFO] Transaksi %s berstatus %s, billing dibiarkan unpaid", orderID, status)

	default:
		log.Println("[INFO] Status tidak diproses:", status)
	}

	return nil
}
