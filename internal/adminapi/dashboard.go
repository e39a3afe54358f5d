package adminapi

import (
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"

	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/metrics", dashboardMetrics)
	webserver.ApiGET("/dashboard/system", dashboardSystem)
}

// dashboardMetrics feeds the home page metric cards.
func dashboardMetrics(c echo.Context) error {
	orders := current.Orders().List()
	users := current.Users().List()
	vouchers := current.Vouchers().List()

	prices := make([]float64, 0, len(orders))
	revenue := 0.0
	pending := 0
	for _, o := range orders {
		prices = append(prices, o.Price)
		if o.Status == domain.OrderCompleted {
			revenue += o.Price
		}
		if o.Status == domain.OrderPending {
			pending++
		}
	}
	meanPrice, _ := stats.Mean(prices)
	medianPrice, _ := stats.Median(prices)

	activeUsers := 0
	for _, u := range users {
		if u.Status == domain.UserActive {
			activeUsers++
		}
	}
	activeVouchers := 0
	for _, v := range vouchers {
		if v.Status == domain.VoucherActive {
			activeVouchers++
		}
	}

	return ok(c, map[string]interface{}{
		"totalOrders":      len(orders),
		"pendingOrders":    pending,
		"completedRevenue": revenue,
		"meanOrderPrice":   meanPrice,
		"medianOrderPrice": medianPrice,
		"totalUsers":       len(users),
		"activeUsers":      activeUsers,
		"totalVouchers":    len(vouchers),
		"activeVouchers":   activeVouchers,
	})
}

func dashboardSystem(c echo.Context) error {
	snap := current.Monitor().Latest()
	return ok(c, map[string]interface{}{
		"cpuPercent": snap.CPUPercent,
		"memUsedMb":  snap.MemUsedMB,
		"memPercent": snap.MemPercent,
		"sampledAt":  snap.SampledAt,
		"goroutines": runtime.NumGoroutine(),
	})
}
