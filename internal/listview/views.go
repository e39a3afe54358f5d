package listview

import (
	"strconv"

	"github.com/storekit/storeadmin/internal/domain"
)

// Per-entity view declarations. These replace the page-by-page filtering
// code the dashboard accumulated: one engine, four configurations.

var Orders = View[domain.Order]{
	Statuses: domain.OrderStatuses,
	StatusOf: func(o domain.Order) string { return o.Status },
	SearchFields: func(o domain.Order) []string {
		return []string{o.Customer.Name, strconv.FormatInt(o.ID, 10)}
	},
}

var Users = View[domain.User]{
	Statuses: domain.UserStatuses,
	StatusOf: func(u domain.User) string { return u.Status },
	SearchFields: func(u domain.User) []string {
		return []string{u.Name, u.Email}
	},
}

var Vouchers = View[domain.Voucher]{
	Statuses: domain.VoucherStatuses,
	StatusOf: func(v domain.Voucher) string { return v.Status },
	SearchFields: func(v domain.Voucher) []string {
		return []string{v.Code, strconv.FormatInt(v.ID, 10)}
	},
}

// Products is used for tallying locally fetched catalog pages; text search
// for products is delegated to the remote API q parameter.
var Products = View[domain.Product]{
	Statuses: domain.StockStatuses,
	StatusOf: func(p domain.Product) string { return p.AvailabilityStatus },
	SearchFields: func(p domain.Product) []string {
		return []string{p.Title, p.Description}
	},
}
