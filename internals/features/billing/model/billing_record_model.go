package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status pembayaran billing. Transisi sengaja bebas (koreksi manual admin),
// kecuali billing_paid_at yang selalu dikosongkan kalau status bukan paid.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// BillingRecordModel adalah konsekuensi finansial dari satu reading approved.
// Unique index di billing_reading_id menegakkan invariant satu billing per
// reading di level storage.
type BillingRecordModel struct {
	BillingID uuid.UUID `gorm:"column:billing_id;type:uuid;primaryKey" json:"billing_id"`

	BillingReadingID uuid.UUID `gorm:"column:billing_reading_id;type:uuid;not null;uniqueIndex" json:"billing_reading_id"`
	BillingRoomID    uuid.UUID `gorm:"column:billing_room_id;type:uuid;not null;index" json:"billing_room_id"`
	BillingMonth     int       `gorm:"column:billing_month;not null" json:"billing_month"`
	BillingYear      int       `gorm:"column:billing_year;not null" json:"billing_year"`

	BillingWaterUsage       float64 `gorm:"column:billing_water_usage;not null" json:"billing_water_usage"`
	BillingElectricityUsage float64 `gorm:"column:billing_electricity_usage;not null" json:"billing_electricity_usage"`
	BillingWaterCost        float64 `gorm:"column:billing_water_cost;not null" json:"billing_water_cost"`
	BillingElectricityCost  float64 `gorm:"column:billing_electricity_cost;not null" json:"billing_electricity_cost"`
	BillingBaseRent         float64 `gorm:"column:billing_base_rent;not null" json:"billing_base_rent"`
	BillingTrashFee         float64 `gorm:"column:billing_trash_fee;not null" json:"billing_trash_fee"`
	BillingTotalAmount      float64 `gorm:"column:billing_total_amount;not null" json:"billing_total_amount"`

	BillingPaymentStatus string     `gorm:"column:billing_payment_status;type:varchar(20);not null;default:'unpaid';index" json:"billing_payment_status"`
	BillingPaidAt        *time.Time `gorm:"column:billing_paid_at" json:"billing_paid_at,omitempty"`

	BillingOrderID      *string `gorm:"column:billing_order_id;type:varchar(100);unique" json:"billing_order_id,omitempty"`
	BillingPaymentToken *string `gorm:"column:billing_payment_token;type:text" json:"billing_payment_token,omitempty"`
	BillingPaymentURL   *string `gorm:"column:billing_payment_url;type:text" json:"billing_payment_url,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BillingRecordModel) TableName() string {
	return "billing_records"
}

func (m *BillingRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.BillingID == uuid.Nil {
		m.BillingID = uuid.New()
	}
	return nil
}
