package domain

import "time"

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Review struct {
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	Date          time.Time `json:"date"`
	ReviewerName  string    `json:"reviewerName"`
	ReviewerEmail string    `json:"reviewerEmail"`
}

type ProductMeta struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Barcode   string    `json:"barcode"`
	QRCode    string    `json:"qrCode"`
}

// Product mirrors the remote catalog API shape.
type Product struct {
	ID                   int64       `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Category             string      `json:"category"`
	Price                float64     `json:"price"`
	DiscountPercentage   float64     `json:"discountPercentage,omitempty"`
	Rating               float64     `json:"rating"`
	Stock                int         `json:"stock"`
	Tags                 []string    `json:"tags,omitempty"`
	Brand                string      `json:"brand,omitempty"`
	SKU                  string      `json:"sku,omitempty"`
	Weight               float64     `json:"weight,omitempty"`
	Dimensions           Dimensions  `json:"dimensions,omitempty"`
	WarrantyInformation  string      `json:"warrantyInformation,omitempty"`
	ShippingInformation  string      `json:"shippingInformation,omitempty"`
	AvailabilityStatus   string      `json:"availabilityStatus"`
	ReturnPolicy         string      `json:"returnPolicy,omitempty"`
	MinimumOrderQuantity int         `json:"minimumOrderQuantity,omitempty"`
	Reviews              []Review    `json:"reviews,omitempty"`
	Images               []string    `json:"images,omitempty"`
	Thumbnail            string      `json:"thumbnail"`
	Meta                 ProductMeta `json:"meta,omitempty"`
}

const (
	StockIn  = "In Stock"
	StockLow = "Low Stock"
	StockOut = "Out of Stock"
)

var StockStatuses = []string{StockIn, StockLow, StockOut}

// StockStatusOf derives availability from the stock level:
// above 10 in stock, 1-10 low, 0 out.
func StockStatusOf(stock int) string {
	switch {
	case stock > 10:
		return StockIn
	case stock > 0:
		return StockLow
	default:
		return StockOut
	}
}

// DeriveAvailability recomputes AvailabilityStatus from Stock.
func (p *Product) DeriveAvailability() {
	p.AvailabilityStatus = StockStatusOf(p.Stock)
}

func StockStatusColor(status string) string {
	switch status {
	case StockIn:
		return "green"
	case StockLow:
		return "gold"
	case StockOut:
		return "red"
	default:
		return "default"
	}
}
