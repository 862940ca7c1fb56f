package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/datatypes"
)

// Tipe notifikasi yang dikirim dispatcher.
const (
	NotificationTypeReadingSubmitted = "reading_submitted"
	NotificationTypeReadingUpdated   = "reading_updated"
	NotificationTypeReadingApproved  = "reading_approved"
	NotificationTypeReadingRejected  = "reading_rejected"
	NotificationTypeBillingCreated   = "billing_created"
	NotificationTypePaymentReceived  = "payment_received"
)

// NotificationModel adalah history notifikasi per user. Row selalu ditulis
// untuk setiap penerima walaupun delivery push/socket gagal, supaya unread
// count konsisten.
type NotificationModel struct {
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`

	NotificationUserID uuid.UUID `gorm:"column:notification_user_id;type:uuid;not null;index" json:"notification_user_id"`

	NotificationTitle   string         `gorm:"column:notification_title;type:varchar(150);not null" json:"notification_title"`
	NotificationMessage string         `gorm:"column:notification_message;type:text;not null" json:"notification_message"`
	NotificationType    string         `gorm:"column:notification_type;type:varchar(40);not null" json:"notification_type"`
	NotificationData    datatypes.JSON `gorm:"column:notification_data" json:"notification_data,omitempty"`

	NotificationIsRead bool `gorm:"column:notification_is_read;not null;default:false;index" json:"notification_is_read"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}
