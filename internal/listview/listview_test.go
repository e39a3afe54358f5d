package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storeadmin/internal/domain"
)

func sampleOrders() []domain.Order {
	date := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Order{
		{ID: 1, Customer: domain.Customer{Name: "Alice Johnson", Email: "alice@example.com"}, Date: date, Items: 2, Price: 59.90, Status: domain.OrderPending},
		{ID: 2, Customer: domain.Customer{Name: "Bob Lee", Email: "bob@example.com"}, Date: date, Items: 1, Price: 12.50, Status: domain.OrderCompleted},
		{ID: 3, Customer: domain.Customer{Name: "Carla Smith", Email: "carla@example.com"}, Date: date, Items: 5, Price: 230.00, Status: domain.OrderPending},
	}
}

func TestTallyPartition(t *testing.T) {
	orders := sampleOrders()
	counts := Orders.Tally(orders)

	assert.Equal(t, 3, counts[TabAll])
	assert.Equal(t, 2, counts[domain.OrderPending])
	assert.Equal(t, 1, counts[domain.OrderCompleted])
	assert.Equal(t, 0, counts[domain.OrderCancelled])
	assert.Equal(t, 0, counts[domain.OrderRefunded])

	sum := 0
	for _, s := range domain.OrderStatuses {
		sum += counts[s]
	}
	assert.Equal(t, counts[TabAll], sum)
}

func TestTallyUnknownStatusCountsTowardAllOnly(t *testing.T) {
	orders := append(sampleOrders(), domain.Order{ID: 4, Status: "Shipped"})
	counts := Orders.Tally(orders)

	assert.Equal(t, 4, counts[TabAll])
	sum := 0
	for _, s := range domain.OrderStatuses {
		sum += counts[s]
	}
	assert.Equal(t, 3, sum, "unknown status must not land in any bucket")
}

func TestTallyEmpty(t *testing.T) {
	counts := Vouchers.Tally(nil)
	assert.Equal(t, 0, counts[TabAll])
	assert.Equal(t, 0, counts[domain.VoucherActive])
	assert.Equal(t, 0, counts[domain.VoucherExpired])
}

func TestFilterByTabKeepsOrder(t *testing.T) {
	orders := sampleOrders()
	got := Orders.Filter(orders, domain.OrderPending, "")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestFilterBySearchText(t *testing.T) {
	orders := sampleOrders()

	// case-insensitive substring on customer name
	got := Orders.Filter(orders, TabAll, "aliCE")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// numeric id matches by decimal substring: "1" matches id 1 only here
	got = Orders.Filter(orders, TabAll, "3")
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	// both predicates AND together
	got = Orders.Filter(orders, domain.OrderCompleted, "alice")
	assert.Empty(t, got)
}

func TestFilterIdSubstring(t *testing.T) {
	orders := []domain.Order{
		{ID: 12, Status: domain.OrderPending},
		{ID: 120, Status: domain.OrderPending},
		{ID: 7, Status: domain.OrderPending},
	}
	got := Orders.Filter(orders, TabAll, "12")
	require.Len(t, got, 2)
	assert.Equal(t, int64(12), got[0].ID)
	assert.Equal(t, int64(120), got[1].ID)
}

func TestFilterIdempotent(t *testing.T) {
	orders := sampleOrders()
	once := Orders.Filter(orders, domain.OrderPending, "a")
	twice := Orders.Filter(once, domain.OrderPending, "a")
	assert.Equal(t, once, twice)
}

func TestUserSearchFields(t *testing.T) {
	users := []domain.User{
		{ID: 1, Name: "Dana", Email: "dana@corp.io", Status: domain.UserActive},
		{ID: 2, Name: "Erik", Email: "erik@mail.com", Status: domain.UserBlocked},
	}
	got := Users.Filter(users, TabAll, "corp")
	require.Len(t, got, 1)
	assert.Equal(t, "Dana", got[0].Name)
}

func TestVoucherSearchFields(t *testing.T) {
	vouchers := []domain.Voucher{
		{ID: 41, Code: "SPRING20", Status: domain.VoucherActive},
		{ID: 42, Code: "WELCOME10", Status: domain.VoucherActive},
	}
	got := Vouchers.Filter(vouchers, TabAll, "spring")
	require.Len(t, got, 1)
	assert.Equal(t, int64(41), got[0].ID)

	got = Vouchers.Filter(vouchers, TabAll, "42")
	require.Len(t, got, 1)
	assert.Equal(t, "WELCOME10", got[0].Code)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Paginate(items, 1, 3))
	assert.Equal(t, []int{4, 5, 6}, Paginate(items, 2, 3))
	assert.Equal(t, []int{7}, Paginate(items, 3, 3))
	assert.Empty(t, Paginate(items, 4, 3))
	assert.Empty(t, Paginate(items, 100, 3))
	// page length property: min(size, max(0, len-(page-1)*size))
	for page := 1; page <= 5; page++ {
		got := Paginate(items, page, 3)
		want := len(items) - (page-1)*3
		if want < 0 {
			want = 0
		}
		if want > 3 {
			want = 3
		}
		assert.Len(t, got, want)
	}
}

func TestWindowResizeResetsPage(t *testing.T) {
	w := Window{Page: 7, PageSize: 10}
	assert.Equal(t, 60, w.Skip())

	w.Resize(25)
	assert.Equal(t, 1, w.Page)
	assert.Equal(t, 0, w.Skip())
	assert.Equal(t, 4, w.Pages(100))
	assert.Equal(t, 5, w.Pages(101))
	assert.Equal(t, 0, w.Pages(0))
}
