package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewBillingOrderID(t *testing.T) {
	orderID := newBillingOrderID()

	require.True(t, strings.HasPrefix(orderID, "BILL-"))
	_, err := uuid.Parse(strings.TrimPrefix(orderID, "BILL-"))
	require.NoError(t, err)

	// dua transaksi tidak boleh berbagi order id
	require.NotEqual(t, orderID, newBillingOrderID())
}
