package domain

import "time"

// Customer is embedded in an order; orders do not reference the user table.
type Customer struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type Order struct {
	ID       int64     `json:"id"`
	Customer Customer  `json:"customer"`
	Date     time.Time `json:"date"`
	Items    int       `json:"items"`
	Price    float64   `json:"price"`
	Status   string    `json:"status"`
}

const (
	OrderPending   = "Pending"
	OrderCompleted = "Completed"
	OrderCancelled = "Cancelled"
	OrderRefunded  = "Refunded"
)

// OrderStatuses lists the tab buckets for the orders view, excluding "All".
var OrderStatuses = []string{OrderPending, OrderCompleted, OrderCancelled, OrderRefunded}

// OrderStatusColor returns the tag color for an order status badge.
func OrderStatusColor(status string) string {
	switch status {
	case OrderPending:
		return "gold"
	case OrderCompleted:
		return "green"
	case OrderCancelled:
		return "red"
	case OrderRefunded:
		return "gray"
	default:
		return "default"
	}
}
