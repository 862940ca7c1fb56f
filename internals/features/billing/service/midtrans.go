package service

import (
	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	billingModel "kosanku_backend/internals/features/billing/model"
)

var SnapClient snap.Client

// newBillingOrderID membuat order id Midtrans yang unik untuk satu transaksi.
func newBillingOrderID() string {
	return "BILL-" + uuid.NewString()
}

// InitMidtrans menginisialisasi Midtrans Snap Client dengan server key.
func InitMidtrans(serverKey string) {
	SnapClient.New(serverKey, midtrans.Sandbox)
}

// CreatePaymentLink membuat transaksi Snap untuk satu billing record.
// Token/redirect URL dirender client sebagai QR pembayaran.
func CreatePaymentLink(rec *billingModel.BillingRecordModel, payerName string) (orderID, token, redirectURL string, err error) {
	orderID = newBillingOrderID()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(rec.BillingTotalAmount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: payerName,
		},
	}

	resp, snapErr := SnapClient.CreateTransaction(req)
	if snapErr != nil {
		return "", "", "", snapErr
	}
	return orderID, resp.Token, resp.RedirectURL, nil
}
