package dto

import "time"

type UpdatePaymentStatusRequest struct {
	Status      string     `json:"status" validate:"required,oneof=unpaid paid overdue"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}
