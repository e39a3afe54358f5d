// Package catalog adapts the remote product API to the dashboard's list
// views. Filtering and windowing are remote concerns here; the service adds
// the stock-status tab, the tally and an optimistic delete shadow, because
// the demo backend echoes mutations without persisting them.
package catalog

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/storekit/storeadmin/internal/domain"
	"github.com/storekit/storeadmin/internal/listview"
	"github.com/storekit/storeadmin/internal/productapi"
)

// Page is one table page plus everything the tabs need.
type Page struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Tally    map[string]int   `json:"tally"`
	Page     int              `json:"page"`
	PerPage  int              `json:"perPage"`
}

type Service struct {
	client   *productapi.Client
	searcher *productapi.Searcher

	mu      sync.Mutex
	deleted map[int64]bool // optimistic delete shadow over the demo backend
}

func NewService(client *productapi.Client) *Service {
	return &Service{
		client:   client,
		searcher: productapi.NewSearcher(client),
		deleted:  make(map[int64]bool),
	}
}

// List fetches the requested window and, concurrently, the full list for
// tab tallies. The remote total is trusted for page-count display; the
// stock-status tab is applied client-side the way the dashboard always has.
func (s *Service) List(ctx context.Context, q, stockStatus string, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	w := listview.Window{Page: page, PageSize: perPage}

	var windowRes, allRes *productapi.ListResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.searcher.Fetch(gctx, q, w.PageSize, w.Skip())
		windowRes = res
		return err
	})
	g.Go(func() error {
		res, err := s.client.List(gctx, q, 0, 0)
		allRes = res
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := s.withoutDeleted(windowRes.Products)
	if stockStatus != "" && stockStatus != listview.TabAll {
		products = listview.Products.Filter(products, stockStatus, "")
	}
	return &Page{
		Products: products,
		Total:    windowRes.Total,
		Tally:    listview.Products.Tally(s.withoutDeleted(allRes.Products)),
		Page:     w.Page,
		PerPage:  w.PageSize,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	gone := s.deleted[id]
	s.mu.Unlock()
	if gone {
		return nil, productapi.ErrNotFound
	}
	return s.client.Get(ctx, id)
}

func (s *Service) Add(ctx context.Context, draft domain.Product) (*domain.Product, error) {
	return s.client.Add(ctx, draft)
}

// Update passes the patch through, deriving availability client-side when
// the stock level changes so the echoed product carries the right status.
func (s *Service) Update(ctx context.Context, id int64, patch map[string]interface{}) (*domain.Product, error) {
	if raw, ok := patch["stock"]; ok {
		patch["availabilityStatus"] = domain.StockStatusOf(cast.ToInt(raw))
	}
	return s.client.Update(ctx, id, patch)
}

// Delete is optimistic: the product disappears from local views immediately
// (pending), then the remote call either commits the shadow or rolls it
// back. The typed failure propagates; the rollback restores the view.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.deleted[id] {
		s.mu.Unlock()
		return errors.Wrapf(productapi.ErrNotFound, "product %d", id)
	}
	s.deleted[id] = true
	s.mu.Unlock()

	res, err := s.client.Delete(ctx, id)
	if err != nil {
		s.mu.Lock()
		delete(s.deleted, id) // roll back the shadow
		s.mu.Unlock()
		if errors.Is(err, productapi.ErrNotFound) {
			return err
		}
		zap.L().Warn("product delete rolled back", zap.Int64("id", id), zap.Error(err))
		return err
	}
	zap.L().Info("product delete committed", zap.Int64("id", id), zap.Bool("isDeleted", res.IsDeleted))
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.client.Categories(ctx)
}

func (s *Service) withoutDeleted(products []domain.Product) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.deleted) == 0 {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !s.deleted[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
