package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusOf(t *testing.T) {
	assert.Equal(t, StockIn, StockStatusOf(50))
	assert.Equal(t, StockIn, StockStatusOf(11))
	assert.Equal(t, StockLow, StockStatusOf(10))
	assert.Equal(t, StockLow, StockStatusOf(5))
	assert.Equal(t, StockLow, StockStatusOf(1))
	assert.Equal(t, StockOut, StockStatusOf(0))
}

func TestVoucherDeriveStatus(t *testing.T) {
	now := time.Now()

	v := Voucher{Code: "WELCOME10", ExpirationDate: now.Add(24 * time.Hour)}
	v.DeriveStatus(now)
	assert.Equal(t, VoucherActive, v.Status)

	v.ExpirationDate = now.Add(-24 * time.Hour)
	v.DeriveStatus(now)
	assert.Equal(t, VoucherExpired, v.Status)

	// expiring exactly now is already expired
	v.ExpirationDate = now
	v.DeriveStatus(now)
	assert.Equal(t, VoucherExpired, v.Status)
}

func TestStatusColorsExhaustive(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.NotEqual(t, "default", OrderStatusColor(s), s)
	}
	for _, s := range UserStatuses {
		assert.NotEqual(t, "default", UserStatusColor(s), s)
	}
	for _, s := range StockStatuses {
		assert.NotEqual(t, "default", StockStatusColor(s), s)
	}
	for _, s := range VoucherStatuses {
		assert.NotEqual(t, "default", VoucherStatusColor(s), s)
	}
	assert.Equal(t, "default", OrderStatusColor("Shipped"))
}
