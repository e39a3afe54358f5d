package domain

type User struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Avatar      string  `json:"avatar"`
	Status      string  `json:"status"`
	TotalOrders int     `json:"totalOrders"`
	TotalSpent  float64 `json:"totalSpent"`
	Role        string  `json:"role"`
	PhoneNumber string  `json:"phoneNumber"`
	Country     string  `json:"country"`
	State       string  `json:"state"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	ZipCode     string  `json:"zipCode"`
	Company     string  `json:"company"`
}

const (
	UserActive  = "Active"
	UserPending = "Pending"
	UserBlocked = "Blocked"
)

var UserStatuses = []string{UserActive, UserPending, UserBlocked}

func UserStatusColor(status string) string {
	switch status {
	case UserActive:
		return "green"
	case UserPending:
		return "gold"
	case UserBlocked:
		return "red"
	default:
		return "default"
	}
}
