package productapi

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrSuperseded marks a fetch whose result arrived after a newer fetch
// started. The caller drops it; the newer result owns the view.
var ErrSuperseded = errors.New("remote: fetch superseded by a newer request")

// Searcher serializes catalog fetches so the most recent search input wins.
// Starting a fetch cancels the previous in-flight request, and a stale
// completion that raced past the cancellation is still rejected by its
// sequence number.
type Searcher struct {
	client *Client

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

func NewSearcher(client *Client) *Searcher {
	return &Searcher{client: client}
}

func (s *Searcher) Fetch(ctx context.Context, q string, limit, skip int) (*ListResult, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	res, err := s.client.List(fctx, q, limit, skip)

	s.mu.Lock()
	current := seq == s.seq
	if current {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if !current {
		return nil, ErrSuperseded
	}
	return res, err
}
