package domain

import "time"

const (
	VoucherPercentage = "percentage"
	VoucherFixed      = "fixed"
)

const (
	VoucherActive  = "Active"
	VoucherExpired = "Expired"
)

var VoucherStatuses = []string{VoucherActive, VoucherExpired}

type Voucher struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	Type           string    `json:"type"`
	Value          float64   `json:"value"`
	ExpirationDate time.Time `json:"expirationDate"`
	MaxUsesPerUser int       `json:"maxUsesPerUser"`
	Status         string    `json:"status"`
}

// DeriveStatus recomputes Status from ExpirationDate. Callers never set
// Status directly; create, update and the expiry sweep all go through here.
func (v *Voucher) DeriveStatus(now time.Time) {
	if v.ExpirationDate.After(now) {
		v.Status = VoucherActive
	} else {
		v.Status = VoucherExpired
	}
}

func VoucherStatusColor(status string) string {
	switch status {
	case VoucherActive:
		return "green"
	case VoucherExpired:
		return "red"
	default:
		return "default"
	}
}
