package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"team-match-system/models"
)

// DefaultSearchDebounce is how long the coordinator waits after the last
// keystroke before dispatching a lookup.
const DefaultSearchDebounce = 300 * time.Millisecond

// placeSearcher is the slice of the geocoding collaborator the coordinator
// needs.
type placeSearcher interface {
	SearchByKeyword(ctx context.Context, keyword string) ([]models.Place, error)
}

// SearchCoordinator debounces keyword lookups and discards superseded
// responses. Every accepted query gets a monotonically increasing sequence
// number; a response is applied only if its sequence number is still the
// latest, so correctness never rests on timer cancellation alone.
type SearchCoordinator struct {
	mu       sync.Mutex
	seq      uint64
	searcher placeSearcher
	debounce time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewSearchCoordinator(searcher placeSearcher, debounce time.Duration) *SearchCoordinator {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	return &SearchCoordinator{
		searcher: searcher,
		debounce: debounce,
		sleep:    sleepCtx,
	}
}

// ErrSuperseded marks a lookup that lost to a newer query. Not part of the
// engine taxonomy on purpose: supersession is the normal outcome of fast
// typing, not a failure anyone retries.
var ErrSuperseded = models.E(models.KindValidationFailure, "query superseded by a newer one")

// Lookup registers the query, waits out the debounce window, and dispatches
// only if no newer query arrived meanwhile. Late results from an in-flight
// lookup are likewise discarded when a newer query has been registered.
func (c *SearchCoordinator) Lookup(ctx context.Context, query string) ([]models.Place, error) {
	query = NormalizeKeyword(query)
	if query == "" {
		return nil, models.E(models.KindValidationFailure, "empty search query")
	}

	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	c.mu.Unlock()

	if err := c.sleep(ctx, c.debounce); err != nil {
		return nil, models.WrapE(models.KindNetworkFailure, err, "lookup cancelled")
	}

	if c.latest() != mySeq {
		return nil, ErrSuperseded
	}

	places, err := c.searcher.SearchByKeyword(ctx, query)
	if err != nil {
		return nil, err
	}

	// Re-check after the round trip: a result that arrives late must be
	// discarded rather than applied.
	if c.latest() != mySeq {
		return nil, ErrSuperseded
	}
	return places, nil
}

func (c *SearchCoordinator) latest() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NormalizeKeyword trims and NFC-normalizes a query so composed and
// decomposed Hangul input hit the same cache and collaborator results.
func NormalizeKeyword(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// ClampCursor keeps keyboard navigation inside [0, resultCount-1]. A cursor
// over an empty result list parks at -1.
func ClampCursor(idx, resultCount int) int {
	if resultCount <= 0 {
		return -1
	}
	if idx < 0 {
		return 0
	}
	if idx >= resultCount {
		return resultCount - 1
	}
	return idx
}
