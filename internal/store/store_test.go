package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storeadmin/internal/domain"
)

func voucherCollection(bus EventBus.Bus) *Collection[domain.Voucher] {
	return NewCollection(Config[domain.Voucher]{
		Name:   "vouchers",
		IDOf:   func(v domain.Voucher) int64 { return v.ID },
		SetID:  func(v *domain.Voucher, id int64) { v.ID = id },
		Derive: func(v *domain.Voucher, now time.Time) { v.DeriveStatus(now) },
		Bus:    bus,
	})
}

func TestCreateDerivesVoucherStatus(t *testing.T) {
	c := voucherCollection(nil)

	// caller omits status entirely; expiration yesterday means Expired
	v, err := c.Create(domain.Voucher{
		Code:           "OLD5",
		Type:           domain.VoucherFixed,
		Value:          5,
		ExpirationDate: time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)
	assert.Equal(t, domain.VoucherExpired, v.Status)

	v2, err := c.Create(domain.Voucher{
		Code:           "FRESH10",
		Type:           domain.VoucherPercentage,
		Value:          10,
		ExpirationDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherActive, v2.Status)
	assert.NotEqual(t, v.ID, v2.ID)
}

func TestUpdatePatchRederivesAndKeepsPosition(t *testing.T) {
	c := voucherCollection(nil)
	c.Load([]domain.Voucher{
		{ID: 1, Code: "A", ExpirationDate: time.Now().Add(time.Hour)},
		{ID: 2, Code: "B", ExpirationDate: time.Now().Add(time.Hour)},
		{ID: 3, Code: "C", ExpirationDate: time.Now().Add(time.Hour)},
	})

	got, err := c.Update(2, map[string]interface{}{
		"code":           "B2",
		"expirationDate": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Code)
	assert.Equal(t, domain.VoucherExpired, got.Status)

	items := c.List()
	require.Len(t, items, 3)
	assert.Equal(t, int64(2), items[1].ID, "updated row keeps its position")
	assert.Equal(t, "B2", items[1].Code)
	assert.Equal(t, "A", items[0].Code)
}

func TestUpdateCannotChangeID(t *testing.T) {
	c := voucherCollection(nil)
	c.Load([]domain.Voucher{{ID: 9, Code: "X", ExpirationDate: time.Now().Add(time.Hour)}})

	got, err := c.Update(9, map[string]interface{}{"id": 77, "code": "Y"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
}

func TestMutationsOnMissingID(t *testing.T) {
	c := voucherCollection(nil)
	c.Load([]domain.Voucher{{ID: 1, Code: "A", ExpirationDate: time.Now().Add(time.Hour)}})

	_, err := c.Update(7, map[string]interface{}{"code": "Z"})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = c.Delete(7)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, c.Len(), "failed mutations leave the collection unchanged")
}

func TestDeleteRemoves(t *testing.T) {
	c := voucherCollection(nil)
	c.Load([]domain.Voucher{
		{ID: 1, Code: "A", ExpirationDate: time.Now().Add(time.Hour)},
		{ID: 2, Code: "B", ExpirationDate: time.Now().Add(time.Hour)},
	})
	require.NoError(t, c.Delete(1))
	items := c.List()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)

	_, err := c.Get(1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestChangeEventsPublished(t *testing.T) {
	bus := EventBus.New()
	var events []string
	err := bus.Subscribe(TopicChanged, func(name, op string, id int64) {
		events = append(events, name+":"+op)
	})
	require.NoError(t, err)

	c := voucherCollection(bus)
	v, err := c.Create(domain.Voucher{Code: "E1", ExpirationDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	_, err = c.Update(v.ID, map[string]interface{}{"code": "E2"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(v.ID))

	assert.Equal(t, []string{"vouchers:create", "vouchers:update", "vouchers:delete"}, events)
}

func TestRecomputeSweep(t *testing.T) {
	c := voucherCollection(nil)
	c.Load([]domain.Voucher{
		{ID: 1, Code: "A", ExpirationDate: time.Now().Add(30 * time.Minute)},
		{ID: 2, Code: "B", ExpirationDate: time.Now().Add(2 * time.Hour)},
	})

	// an hour later the first voucher has lapsed
	changed := c.Recompute(time.Now().Add(time.Hour), func(v domain.Voucher) string { return v.Status })
	assert.Equal(t, 1, changed)
	items := c.List()
	assert.Equal(t, domain.VoucherExpired, items[0].Status)
	assert.Equal(t, domain.VoucherActive, items[1].Status)
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vouchers.json")
	payload := `[{"id":1,"code":"SPRING20","type":"percentage","value":20,"expirationDate":"2099-01-01T00:00:00Z","maxUsesPerUser":3}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	items, err := LoadFixture[domain.Voucher](path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SPRING20", items[0].Code)

	_, err = LoadFixture[domain.Voucher](filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
