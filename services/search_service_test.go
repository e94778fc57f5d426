package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"team-match-system/models"
)

type fakePlaceSearcher struct {
	mu       sync.Mutex
	search   func(ctx context.Context, keyword string) ([]models.Place, error)
	keywords []string
}

func (f *fakePlaceSearcher) SearchByKeyword(ctx context.Context, keyword string) ([]models.Place, error) {
	f.mu.Lock()
	f.keywords = append(f.keywords, keyword)
	f.mu.Unlock()
	if f.search == nil {
		return []models.Place{{Name: "result for " + keyword}}, nil
	}
	return f.search(ctx, keyword)
}

func noDebounce(c *SearchCoordinator) {
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
}

func TestSearchLookup(t *testing.T) {
	searcher := &fakePlaceSearcher{}
	c := NewSearchCoordinator(searcher, DefaultSearchDebounce)
	noDebounce(c)

	places, err := c.Lookup(context.Background(), "  강남역  ")
	if err != nil {
		t.Fatalf("Lookup() = %v, want nil", err)
	}
	if len(places) != 1 {
		t.Fatalf("Lookup() returned %d places, want 1", len(places))
	}
	if searcher.keywords[0] != "강남역" {
		t.Errorf("dispatched keyword = %q, want trimmed %q", searcher.keywords[0], "강남역")
	}
}

func TestSearchLookupEmptyQuery(t *testing.T) {
	c := NewSearchCoordinator(&fakePlaceSearcher{}, DefaultSearchDebounce)
	noDebounce(c)

	if _, err := c.Lookup(context.Background(), "   "); !models.IsKind(err, models.KindValidationFailure) {
		t.Errorf("Lookup(blank) kind = %s, want VALIDATION_FAILURE", models.KindOf(err))
	}
}

// A query still waiting out its debounce window is discarded, without a
// collaborator dispatch, once a newer query is registered.
func TestSearchLookupSuperseded(t *testing.T) {
	searcher := &fakePlaceSearcher{}
	c := NewSearchCoordinator(searcher, DefaultSearchDebounce)

	firstEntered := make(chan struct{})
	release := make(chan struct{})
	var sleeps sync.Mutex
	sleepCount := 0
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps.Lock()
		sleepCount++
		first := sleepCount == 1
		sleeps.Unlock()
		if first {
			close(firstEntered)
			<-release
		}
		return nil
	}

	firstResult := make(chan error, 1)
	go func() {
		_, err := c.Lookup(context.Background(), "강남")
		firstResult <- err
	}()

	<-firstEntered
	if _, err := c.Lookup(context.Background(), "강남역"); err != nil {
		t.Fatalf("second Lookup() = %v, want nil", err)
	}

	close(release)
	if err := <-firstResult; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("first Lookup() = %v, want ErrSuperseded", err)
	}

	searcher.mu.Lock()
	defer searcher.mu.Unlock()
	if len(searcher.keywords) != 1 || searcher.keywords[0] != "강남역" {
		t.Errorf("dispatched keywords = %v, want only the newest query", searcher.keywords)
	}
}

// A response that comes back after a newer query registered is discarded even
// though its dispatch already happened.
func TestSearchLookupLateResponseDiscarded(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	searcher := &fakePlaceSearcher{}
	searcher.search = func(ctx context.Context, keyword string) ([]models.Place, error) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(inFlight)
			<-release
		}
		return []models.Place{{Name: keyword}}, nil
	}

	c := NewSearchCoordinator(searcher, DefaultSearchDebounce)
	noDebounce(c)

	firstResult := make(chan error, 1)
	go func() {
		_, err := c.Lookup(context.Background(), "판교")
		firstResult <- err
	}()

	<-inFlight
	if _, err := c.Lookup(context.Background(), "판교역"); err != nil {
		t.Fatalf("second Lookup() = %v, want nil", err)
	}

	close(release)
	if err := <-firstResult; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("late first Lookup() = %v, want ErrSuperseded", err)
	}
}

func TestSearchLookupCancelledContext(t *testing.T) {
	c := NewSearchCoordinator(&fakePlaceSearcher{}, DefaultSearchDebounce)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Lookup(ctx, "강남"); !models.IsKind(err, models.KindNetworkFailure) {
		t.Errorf("Lookup(cancelled) kind = %s, want NETWORK_FAILURE", models.KindOf(err))
	}
}

func TestNormalizeKeyword(t *testing.T) {
	// Decomposed Hangul (ᄀ+ᅡ+ᆼ…) must normalize to the composed form.
	decomposed := "강남" // 강남
	if got := NormalizeKeyword(decomposed); got != "강남" {
		t.Errorf("NormalizeKeyword(decomposed) = %q, want %q", got, "강남")
	}
	if got := NormalizeKeyword("  cafe  "); got != "cafe" {
		t.Errorf("NormalizeKeyword() = %q, want trimmed", got)
	}
}

func TestClampCursor(t *testing.T) {
	cases := []struct {
		name        string
		idx, count  int
		want        int
	}{
		{"in range", 2, 5, 2},
		{"below range", -3, 5, 0},
		{"above range", 9, 5, 4},
		{"empty results park at -1", 0, 0, -1},
		{"negative count parks at -1", 3, -1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampCursor(tc.idx, tc.count); got != tc.want {
				t.Errorf("ClampCursor(%d, %d) = %d, want %d", tc.idx, tc.count, got, tc.want)
			}
		})
	}
}
